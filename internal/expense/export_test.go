package expense

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("ExportXLSX", func() {
	It("writes one row per receipt under a header row", func() {
		data, err := ExportXLSX([]Receipt{
			{Date: "2024-03-01", Vendor: "Cafe X", Category: "Food & Dining", Amount: 450, Currency: "INR", Status: StatusPending},
			{Date: "2024-03-02", Vendor: "Metro", Category: "Transport", Amount: 40, Currency: "INR", Status: StatusSubmitted},
		})
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Receipts")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0][0]).To(Equal("Date"))
		Expect(rows[1][1]).To(Equal("Cafe X"))
		Expect(rows[2][6]).To(Equal("submitted"))
	})

	It("produces a workbook with only the header for an empty list", func() {
		data, err := ExportXLSX(nil)
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Receipts")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
	})
})
