// Package importer parses exported bill CSVs (WeChat Pay, Alipay, and
// a best-effort generic format) into transactions ready for batch
// insertion.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

// Format identifies the detected bill layout.
type Format string

const (
	FormatWeChat  Format = "wechat"
	FormatAlipay  Format = "alipay"
	FormatGeneric Format = "generic"
)

// Result summarizes one import run. Transactions are parsed but not
// yet persisted; the caller decides what to do with them.
type Result struct {
	Format       Format
	Total        int
	Imported     int
	Skipped      int
	Errors       []string
	Transactions []model.Transaction
}

// alipayCategories maps the export's category column onto ours.
var alipayCategories = map[string]string{
	"餐饮美食": "food",
	"交通出行": "transport",
	"日用百货": "shopping",
	"充值缴费": "utilities",
	"转账":   "transfer",
	"红包":   "gift",
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// Import detects the bill format and parses it. Rows that cannot be
// parsed are skipped and counted, never fatal; an error is returned
// only when the input itself cannot be read.
func Import(r io.Reader, accountID string) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading bill: %w", err)
	}
	content := string(raw)

	format := Detect(content)
	rows, err := parseRows(content)
	if err != nil {
		return Result{Format: format}, fmt.Errorf("parsing csv: %w", err)
	}

	var res Result
	switch format {
	case FormatWeChat:
		res = parseWeChat(rows, accountID)
	case FormatAlipay:
		res = parseAlipay(rows, accountID)
	default:
		res = parseGeneric(rows, accountID)
	}
	res.Format = format
	if len(res.Transactions) == 0 {
		res.Errors = append(res.Errors, "no recognizable transactions in file")
	}
	return res, nil
}

// Detect sniffs the bill format from the file content.
func Detect(content string) Format {
	if strings.Contains(content, "微信支付账单") || strings.Contains(content, "微信支付交易明细") {
		return FormatWeChat
	}
	if strings.Contains(content, "支付宝") || strings.Contains(strings.ToLower(content), "alipay") {
		return FormatAlipay
	}
	return FormatGeneric
}

// Bill exports carry free-form preamble lines before the header, so
// the reader must tolerate ragged rows and loose quoting.
func parseRows(content string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
}

// WeChat columns: time, type, merchant, product, direction, amount, ...
func parseWeChat(rows [][]string, accountID string) Result {
	var res Result
	start := headerIndex(rows, "交易时间")

	for _, row := range rows[start:] {
		if len(row) < 6 {
			continue
		}
		res.Total++

		amount, ok := parseAmount(row[5])
		if !ok {
			res.Skipped++
			continue
		}
		date, ok := parseDate(row[0])
		if !ok {
			res.Skipped++
			continue
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			AccountID:   accountID,
			Amount:      amount,
			Direction:   directionOf(row[4]),
			Category:    "other",
			Description: strings.TrimSpace(row[3]),
			Merchant:    strings.TrimSpace(row[2]),
			Source:      model.SourceImport,
			RawData:     strings.Join(row, ","),
			Date:        date,
		})
		res.Imported++
	}
	return res
}

// Alipay columns: time, category, merchant, account, product, direction, amount, ...
func parseAlipay(rows [][]string, accountID string) Result {
	var res Result
	start := headerIndex(rows, "交易时间", "交易创建时间")

	for _, row := range rows[start:] {
		if len(row) < 7 {
			continue
		}
		res.Total++

		amount, ok := parseAmount(row[6])
		if !ok {
			res.Skipped++
			continue
		}
		date, ok := parseDate(row[0])
		if !ok {
			res.Skipped++
			continue
		}

		category := alipayCategories[strings.TrimSpace(row[1])]
		if category == "" {
			category = "other"
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			AccountID:   accountID,
			Amount:      amount,
			Direction:   directionOf(row[5]),
			Category:    category,
			Description: strings.TrimSpace(row[4]),
			Merchant:    strings.TrimSpace(row[2]),
			Source:      model.SourceImport,
			RawData:     strings.Join(row, ","),
			Date:        date,
		})
		res.Imported++
	}
	return res
}

// parseGeneric locates date and amount columns by header keywords.
func parseGeneric(rows [][]string, accountID string) Result {
	var res Result
	if len(rows) < 2 {
		return res
	}

	header := rows[0]
	dateIdx := findColumn(header, "日期", "时间", "date")
	amountIdx := findColumn(header, "金额", "amount", "money")
	typeIdx := findColumn(header, "类型", "收支", "type")
	descIdx := findColumn(header, "描述", "备注", "说明", "description")
	if dateIdx < 0 || amountIdx < 0 {
		res.Errors = append(res.Errors, "could not locate date and amount columns")
		return res
	}

	for _, row := range rows[1:] {
		if len(row) <= dateIdx || len(row) <= amountIdx {
			continue
		}
		res.Total++

		amount, ok := parseAmount(row[amountIdx])
		if !ok {
			res.Skipped++
			continue
		}
		date, ok := parseDate(row[dateIdx])
		if !ok {
			res.Skipped++
			continue
		}

		direction := model.Expense
		if typeIdx >= 0 && typeIdx < len(row) && directionOf(row[typeIdx]) == model.Income {
			direction = model.Income
		}
		desc := ""
		if descIdx >= 0 && descIdx < len(row) {
			desc = strings.TrimSpace(row[descIdx])
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			AccountID:   accountID,
			Amount:      amount,
			Direction:   direction,
			Category:    "other",
			Description: desc,
			Source:      model.SourceImport,
			RawData:     strings.Join(row, ","),
			Date:        date,
		})
		res.Imported++
	}
	return res
}

// headerIndex returns the index of the first data row, skipping the
// preamble up to and including the header line.
func headerIndex(rows [][]string, markers ...string) int {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		for _, m := range markers {
			if strings.Contains(row[0], m) {
				return i + 1
			}
		}
	}
	return 0
}

func findColumn(header []string, keywords ...string) int {
	for i, h := range header {
		lower := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return i
			}
		}
	}
	return -1
}

// parseAmount strips currency decoration; zero and negative results
// are rejected, the direction column carries the sign.
func parseAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.NewReplacer("¥", "", "￥", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(cleaned)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func directionOf(s string) model.Direction {
	if strings.Contains(s, "收入") || strings.Contains(strings.ToLower(s), "income") {
		return model.Income
	}
	return model.Expense
}
