package expense

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		rootDir string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		rootDir = filepath.Join(tmpDir, "receipts")
		var err error
		storage, err = NewLocalStorage(rootDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		var (
			savedPath string
			err       error
		)

		JustBeforeEach(func() {
			savedPath, err = storage.Save("receipt.jpg", []byte("image bytes"))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the filename", func() {
			Expect(savedPath).To(Equal("receipt.jpg"))
		})

		It("should write the file to disk", func() {
			Expect(filepath.Join(rootDir, "receipt.jpg")).To(BeAnExistingFile())
		})
	})

	Describe("Get", func() {
		var (
			path string
			data []byte
			err  error
		)

		BeforeEach(func() {
			path = "receipt.jpg"
		})

		JustBeforeEach(func() {
			data, err = storage.Get(path)
		})

		When("the file exists", func() {
			BeforeEach(func() {
				_, saveErr := storage.Save("receipt.jpg", []byte("image bytes"))
				Expect(saveErr).NotTo(HaveOccurred())
			})

			It("returns its contents", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(data).To(Equal([]byte("image bytes")))
			})
		})

		When("the file does not exist", func() {
			It("returns an error", func() {
				Expect(err).To(HaveOccurred())
			})
		})

		When("the path points outside the storage root", func() {
			BeforeEach(func() {
				Expect(os.WriteFile(filepath.Join(tmpDir, "secret.txt"), []byte("top secret"), 0644)).To(Succeed())
				path = "../secret.txt"
			})

			It("refuses to read it", func() {
				Expect(err).To(HaveOccurred())
				Expect(data).To(BeNil())
			})
		})
	})

	Describe("Delete", func() {
		var (
			path string
			err  error
		)

		BeforeEach(func() {
			path = "receipt.jpg"
			_, saveErr := storage.Save("receipt.jpg", []byte("image bytes"))
			Expect(saveErr).NotTo(HaveOccurred())
		})

		JustBeforeEach(func() {
			err = storage.Delete(path)
		})

		It("removes the file", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(rootDir, "receipt.jpg")).NotTo(BeAnExistingFile())
		})

		When("the path points outside the storage root", func() {
			BeforeEach(func() {
				Expect(os.WriteFile(filepath.Join(tmpDir, "secret.txt"), []byte("top secret"), 0644)).To(Succeed())
				path = "../secret.txt"
			})

			It("refuses to delete it", func() {
				Expect(err).To(HaveOccurred())
				Expect(filepath.Join(tmpDir, "secret.txt")).To(BeAnExistingFile())
			})
		})
	})
})
