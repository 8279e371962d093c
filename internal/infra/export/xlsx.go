// Package export builds the xlsx reports served over HTTP.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gymdesk/gymdesk/internal/domain/attendance"
	"github.com/gymdesk/gymdesk/internal/domain/payments"
)

const timeLayout = "2006-01-02 15:04"

// AttendanceReport renders attendance entries to a spreadsheet, one
// visit per row. The caller owns closing the file.
func AttendanceReport(entries []attendance.Entry) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"id", "member_id", "member_name", "check_in", "check_out", "notes"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for _, e := range entries {
		checkOut := ""
		if e.CheckOutTime != nil {
			checkOut = e.CheckOutTime.Format(timeLayout)
		}
		values := []interface{}{
			e.ID,
			e.MemberID,
			e.MemberName,
			e.CheckInTime.Format(timeLayout),
			checkOut,
			e.Notes,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, err
		}
		row++
	}
	return f, nil
}

// PaymentsReport renders payment entries to a spreadsheet.
func PaymentsReport(entries []payments.Entry) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"id", "member_id", "member_name", "amount", "date", "method", "status", "plan", "reference", "notes"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for _, e := range entries {
		values := []interface{}{
			e.ID,
			e.MemberID,
			e.MemberName,
			e.Amount,
			e.PaymentDate.Format(timeLayout),
			string(e.Method),
			string(e.Status),
			e.PlanName,
			e.TransactionReference,
			e.Notes,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, err
		}
		row++
	}
	return f, nil
}
