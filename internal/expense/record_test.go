package expense

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CoerceCategory", func() {
	It("returns members of the closed set unchanged", func() {
		for _, c := range Categories {
			Expect(CoerceCategory(c)).To(Equal(c))
		}
	})

	It("maps anything else to Other", func() {
		Expect(CoerceCategory("Groceries")).To(Equal("Other"))
		Expect(CoerceCategory("")).To(Equal("Other"))
		Expect(CoerceCategory("food & dining")).To(Equal("Other"))
	})

	It("is idempotent", func() {
		Expect(CoerceCategory(CoerceCategory("anything"))).To(Equal("Other"))
		Expect(CoerceCategory(CoerceCategory("Travel"))).To(Equal("Travel"))
	})
})

var _ = Describe("Aggregates", func() {
	var receipts []Receipt

	BeforeEach(func() {
		receipts = []Receipt{
			{Amount: 450, Category: "Food & Dining"},
			{Amount: 120.50, Category: "Transport"},
			{Amount: 29.50, Category: "Food & Dining"},
		}
	})

	Describe("TotalSpend", func() {
		It("sums all amounts", func() {
			Expect(TotalSpend(receipts)).To(Equal(600.0))
		})

		It("is zero for the empty list", func() {
			Expect(TotalSpend(nil)).To(BeZero())
		})
	})

	Describe("SpendByCategory", func() {
		It("groups amounts by category", func() {
			stats := SpendByCategory(receipts)
			Expect(stats["Food & Dining"]).To(Equal(479.5))
			Expect(stats["Transport"]).To(Equal(120.5))
		})

		It("includes every category even with no matching records", func() {
			stats := SpendByCategory(nil)
			Expect(stats).To(HaveLen(len(Categories)))
			for _, c := range Categories {
				Expect(stats).To(HaveKeyWithValue(c, 0.0))
			}
		})

		It("sums to the total spend", func() {
			stats := SpendByCategory(receipts)
			var sum float64
			for _, v := range stats {
				sum += v
			}
			Expect(sum).To(Equal(TotalSpend(receipts)))
		})

		It("buckets unrecognized categories under Other", func() {
			stats := SpendByCategory([]Receipt{{Amount: 10, Category: "Misc"}})
			Expect(stats["Other"]).To(Equal(10.0))
		})
	})
})
