package expense

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.etcd.io/bbolt"
)

var _ = Describe("BoltStore", func() {
	var store *BoltStore

	BeforeEach(func() {
		var err error
		store, err = NewBoltStore(filepath.Join(GinkgoT().TempDir(), "test.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	// corrupt overwrites a state entry with text that is not valid JSON
	corrupt := func(key string) {
		err := store.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket([]byte(stateBucketName)).Put([]byte(key), []byte("{not json"))
		})
		Expect(err).NotTo(HaveOccurred())
	}

	Describe("receipts", func() {
		It("returns an empty list before anything is saved", func() {
			Expect(store.LoadReceipts()).To(BeEmpty())
		})

		It("round-trips the saved list element-wise", func() {
			saved := []Receipt{
				{ID: "a", Amount: 450, Currency: "INR", Date: "2024-03-01", Vendor: "Cafe X", Category: "Food & Dining", Status: StatusPending},
				{ID: "b", Amount: 12.5, Currency: "USD", Date: "2024-03-02", Vendor: "News Stand", Category: "Other", Status: StatusSubmitted},
			}
			store.SaveReceipts(saved)

			loaded := store.LoadReceipts()
			Expect(loaded).To(HaveLen(2))
			Expect(loaded[0]).To(Equal(saved[0]))
			Expect(loaded[1]).To(Equal(saved[1]))
		})

		It("yields an empty list when the stored text is not valid JSON", func() {
			store.SaveReceipts([]Receipt{{ID: "a"}})
			corrupt(receiptsKey)
			Expect(store.LoadReceipts()).To(BeEmpty())
		})
	})

	Describe("form config", func() {
		It("returns the default configuration before anything is saved", func() {
			config := store.LoadFormConfig()
			Expect(config.FormURL).To(BeEmpty())
			Expect(config.Fields.Amount).To(Equal("entry.1"))
			Expect(config.Fields.Description).To(Equal("entry.5"))
		})

		It("round-trips a saved configuration", func() {
			store.SaveFormConfig(FormConfig{
				FormURL: "https://forms.example.com/viewform",
				Fields:  FieldMapping{Amount: "entry.10", Date: "entry.20", Vendor: "entry.30", Category: "entry.40", Description: "entry.50"},
			})
			config := store.LoadFormConfig()
			Expect(config.FormURL).To(Equal("https://forms.example.com/viewform"))
			Expect(config.Fields.Category).To(Equal("entry.40"))
		})

		It("fills missing field identifiers with defaults", func() {
			store.SaveFormConfig(FormConfig{FormURL: "https://forms.example.com/viewform"})
			config := store.LoadFormConfig()
			Expect(config.Fields.Amount).To(Equal("entry.1"))
			Expect(config.Fields.Vendor).To(Equal("entry.3"))
		})

		It("falls back to the default configuration on corrupted state", func() {
			store.SaveFormConfig(FormConfig{FormURL: "https://forms.example.com/viewform"})
			corrupt(formConfigKey)
			Expect(store.LoadFormConfig()).To(Equal(DefaultFormConfig()))
		})
	})

	Describe("theme", func() {
		It("defaults to light", func() {
			Expect(store.LoadTheme()).To(Equal("light"))
		})

		It("round-trips dark", func() {
			store.SaveTheme("dark")
			Expect(store.LoadTheme()).To(Equal("dark"))
		})

		It("treats unknown stored values as light", func() {
			store.SaveTheme("sepia")
			Expect(store.LoadTheme()).To(Equal("light"))
		})
	})
})
