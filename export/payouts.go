package export

import (
	"fmt"
	"io"
	"math"
	"time"

	"Cywala/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Payouts"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	notProvided = "Not Provided"
)

var Headers = []interface{}{
	"S.No", "Doctor Name", "Email", "Speciality", "Total Consultations",
	"Gross Amount (₹)", "Platform Fee (%)", "Platform Fee (₹)", "Net Payout (₹)",
	"Account Holder Name", "Account Number", "IFSC Code", "Bank Name", "Branch Name",
	"Razorpay Account ID", "Razorpay Key ID",
}

func Filename(start time.Time) string {
	return fmt.Sprintf("payouts-%s.xlsx", start.Format("2006-01"))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func money(v float64) float64 {
	return math.Round(v*100) / 100
}

func row(i int, p models.DoctorPayout) []interface{} {
	bank := p.Payment.BankAccount
	rp := p.Payment.Razorpay
	return []interface{}{
		i + 1,
		p.Name,
		orDefault(p.Email, notProvided),
		orDefault(p.Speciality, "N/A"),
		p.TotalConsultations,
		money(p.GrossAmount),
		p.PlatformFeePercentage,
		money(p.PlatformFee),
		money(p.NetPayout),
		orDefault(bank.AccountHolderName, notProvided),
		orDefault(bank.AccountNumber, notProvided),
		orDefault(bank.IfscCode, notProvided),
		orDefault(bank.BankName, notProvided),
		orDefault(bank.BranchName, notProvided),
		orDefault(rp.AccountID, notProvided),
		orDefault(rp.KeyID, notProvided),
	}
}

/*
* One header row and one row per doctor
* Money columns get a two decimal number format
 */
func PayoutWorkbook(report *models.MonthlyPayouts) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(SheetName, "A1", &Headers); err != nil {
		return nil, err
	}
	for i, p := range report.Payments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := row(i, p)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", "P1", header); err != nil {
		return nil, err
	}
	if n := len(report.Payments); n > 0 {
		amount, err := f.NewStyle(&excelize.Style{NumFmt: 2})
		if err != nil {
			return nil, err
		}
		last := fmt.Sprintf("I%d", n+1)
		if err := f.SetCellStyle(SheetName, "F2", last, amount); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "P", 20); err != nil {
		return nil, err
	}
	return f, nil
}

func WritePayouts(w io.Writer, report *models.MonthlyPayouts) error {
	f, err := PayoutWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}
