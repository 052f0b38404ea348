// Package export serialises report rows for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/lendplan/lendplan/internal/report"
)

// WriteYearSummaryCSV emits the yearly month-by-month report as CSV.
func WriteYearSummaryCSV(w io.Writer, rows []report.SummaryRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"YearMonth",
		"PaymentCount", "PaymentSum", "PaymentPlanSum",
		"CreditCount", "CreditSum", "CreditPlanSum",
		"CreditPlanCompletionPercentage", "PaymentPlanCompletionPercentage",
		"PercentageOfYearlyCredit", "PercentageOfYearlyPayment",
	}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.YearMonth,
			strconv.FormatInt(row.PaymentCount, 10),
			formatFloat(row.PaymentSum),
			formatFloat(row.PaymentPlanSum),
			strconv.FormatInt(row.CreditCount, 10),
			formatFloat(row.CreditSum),
			formatFloat(row.CreditPlanSum),
			formatFloat(row.CreditCompletionPercent),
			formatFloat(row.PaymentCompletionPercent),
			formatFloat(row.YearlyCreditShare),
			formatFloat(row.YearlyPaymentShare),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
