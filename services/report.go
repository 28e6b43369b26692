package services

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"Cywala/export"
	"Cywala/notify"
	"Cywala/storage"
	"Cywala/util"
)

// IsPayoutDay reports whether today, in the server's zone, is the configured payout date.
func (s *Service) IsPayoutDay(ctx context.Context) (bool, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	if settings.PayoutDate == nil {
		return false, nil
	}
	now := s.now()
	pd := settings.PayoutDate.In(now.Location())
	y1, m1, d1 := now.Date()
	y2, m2, d2 := pd.Date()
	return y1 == y2 && m1 == m2 && d1 == d2, nil
}

/*
* Build this month's payout workbook
* Archive it in the object store and mail it to the report address
 */
func (s *Service) SendPayoutReport(ctx context.Context) (string, error) {
	report, err := s.ComputeMonthlyPayouts(ctx)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := export.WritePayouts(&buf, report); err != nil {
		log.Println("Error from WritePayouts:", err)
		return "", util.Internal(err)
	}

	url, err := s.objects.Upload(ctx, storage.ReportKey(report.Start.Format("2006-01")), bytes.NewReader(buf.Bytes()), export.ContentType)
	if err != nil {
		log.Println("Error uploading payout report:", err)
		return "", util.Internal(err)
	}
	log.Println("Payout report stored at", url)

	if s.cfg.PayoutReportEmail == "" {
		log.Println("PAYOUT_REPORT_EMAIL not set, skipping report mail")
		return url, nil
	}
	msg := notify.Message{
		ToName:  "Cywala Admin",
		ToEmail: s.cfg.PayoutReportEmail,
		Subject: "Doctor payouts for " + report.Month,
		Text: fmt.Sprintf("Payouts for %s: %d doctors, gross %.2f, net %.2f.\nReport: %s",
			report.Month, report.TotalDoctors, report.TotalGrossAmount, report.TotalNetPayout, url),
		Attachments: []notify.Attachment{{
			Filename:    export.Filename(report.Start),
			ContentType: export.ContentType,
			Content:     buf.Bytes(),
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Println("Error mailing payout report:", err)
		return url, util.Internal(err)
	}
	return url, nil
}
