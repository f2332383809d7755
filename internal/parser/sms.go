package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

// bankPattern describes how one bank phrases its transaction SMS.
type bankPattern struct {
	name     string
	keywords []string
	expense  []*regexp.Regexp
	income   []*regexp.Regexp
	balance  *regexp.Regexp
	card     *regexp.Regexp
}

var bankPatterns = []bankPattern{
	{
		name:     "工商银行",
		keywords: []string{"工商银行", "工行", "ICBC"},
		expense: []*regexp.Regexp{
			regexp.MustCompile(`支出.*?(\d+\.?\d*)元`),
			regexp.MustCompile(`消费.*?(\d+\.?\d*)元`),
			regexp.MustCompile(`转出.*?(\d+\.?\d*)元`),
		},
		income: []*regexp.Regexp{
			regexp.MustCompile(`收入.*?(\d+\.?\d*)元`),
			regexp.MustCompile(`转入.*?(\d+\.?\d*)元`),
			regexp.MustCompile(`存入.*?(\d+\.?\d*)元`),
		},
		balance: regexp.MustCompile(`余额.*?(\d+\.?\d*)元`),
		card:    regexp.MustCompile(`尾号(\d{4})`),
	},
	{
		name:     "建设银行",
		keywords: []string{"建设银行", "建行", "CCB"},
		expense: []*regexp.Regexp{
			regexp.MustCompile(`支出(\d+\.?\d*)元`),
			regexp.MustCompile(`消费(\d+\.?\d*)元`),
			regexp.MustCompile(`转出(\d+\.?\d*)元`),
		},
		income: []*regexp.Regexp{
			regexp.MustCompile(`收入(\d+\.?\d*)元`),
			regexp.MustCompile(`转入(\d+\.?\d*)元`),
			regexp.MustCompile(`存入(\d+\.?\d*)元`),
		},
		balance: regexp.MustCompile(`余额(\d+\.?\d*)元`),
		card:    regexp.MustCompile(`尾号(\d{4})`),
	},
	{
		name:     "招商银行",
		keywords: []string{"招商银行", "招行", "CMB"},
		expense: []*regexp.Regexp{
			regexp.MustCompile(`支出(\d+\.?\d*)`),
			regexp.MustCompile(`消费(\d+\.?\d*)`),
			regexp.MustCompile(`转出(\d+\.?\d*)`),
		},
		income: []*regexp.Regexp{
			regexp.MustCompile(`收入(\d+\.?\d*)`),
			regexp.MustCompile(`转入(\d+\.?\d*)`),
			regexp.MustCompile(`存入(\d+\.?\d*)`),
		},
		balance: regexp.MustCompile(`余额(\d+\.?\d*)`),
		card:    regexp.MustCompile(`(\d{4})卡`),
	},
	{
		name:     "农业银行",
		keywords: []string{"农业银行", "农行", "ABC"},
		expense: []*regexp.Regexp{
			regexp.MustCompile(`支出.*?(\d+\.?\d*)元`),
			regexp.MustCompile(`消费.*?(\d+\.?\d*)元`),
		},
		income: []*regexp.Regexp{
			regexp.MustCompile(`收入.*?(\d+\.?\d*)元`),
			regexp.MustCompile(`转入.*?(\d+\.?\d*)元`),
		},
		balance: regexp.MustCompile(`余额.*?(\d+\.?\d*)元`),
		card:    regexp.MustCompile(`尾号(\d{4})`),
	},
	{
		name:     "中国银行",
		keywords: []string{"中国银行", "中行", "BOC"},
		expense: []*regexp.Regexp{
			regexp.MustCompile(`支出(\d+\.?\d*)元`),
			regexp.MustCompile(`消费(\d+\.?\d*)元`),
		},
		income: []*regexp.Regexp{
			regexp.MustCompile(`收入(\d+\.?\d*)元`),
			regexp.MustCompile(`转入(\d+\.?\d*)元`),
		},
		balance: regexp.MustCompile(`余额(\d+\.?\d*)元`),
		card:    regexp.MustCompile(`尾号(\d{4})`),
	},
	{
		name:     "交通银行",
		keywords: []string{"交通银行", "交行", "BOCOM"},
		expense: []*regexp.Regexp{
			regexp.MustCompile(`支出(\d+\.?\d*)元`),
			regexp.MustCompile(`消费(\d+\.?\d*)元`),
		},
		income: []*regexp.Regexp{
			regexp.MustCompile(`收入(\d+\.?\d*)元`),
			regexp.MustCompile(`转入(\d+\.?\d*)元`),
		},
		balance: regexp.MustCompile(`余额(\d+\.?\d*)元`),
		card:    regexp.MustCompile(`尾号(\d{4})`),
	},
}

// Fallbacks for banks not in the table.
var (
	genericExpense = []*regexp.Regexp{
		regexp.MustCompile(`(?i)支出[人民币RMB￥¥]*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)消费[人民币RMB￥¥]*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)转出[人民币RMB￥¥]*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)付款[人民币RMB￥¥]*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)扣款[人民币RMB￥¥]*(\d+\.?\d*)`),
	}
	genericIncome = []*regexp.Regexp{
		regexp.MustCompile(`(?i)收入[人民币RMB￥¥]*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)转入[人民币RMB￥¥]*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)存入[人民币RMB￥¥]*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)到账[人民币RMB￥¥]*(\d+\.?\d*)`),
		regexp.MustCompile(`(?i)入账[人民币RMB￥¥]*(\d+\.?\d*)`),
	}
	genericBalance = regexp.MustCompile(`(?i)余额[人民币RMB￥¥]*(\d+\.?\d*)`)
	genericCard    = regexp.MustCompile(`尾号(\d{4})`)

	smsMerchant = []*regexp.Regexp{
		regexp.MustCompile(`在(.+?)消费`),
		regexp.MustCompile(`向(.+?)转`),
		regexp.MustCompile(`收到(.+?)转`),
	}

	bankKeywords = []string{
		"银行", "信用卡", "储蓄卡", "借记卡",
		"支出", "收入", "转账", "消费",
		"余额", "尾号", "账户",
		"ICBC", "CCB", "CMB", "ABC", "BOC",
	}
)

// SMSResult is the outcome of parsing one bank SMS. Balance is the
// reported post-transaction account balance when the message carries
// one.
type SMSResult struct {
	Success    bool
	BankName   string
	Amount     decimal.Decimal
	Direction  model.Direction
	CardLast4  string
	Balance    decimal.Decimal
	HasBalance bool
	Merchant   string
	RawText    string
}

// Transaction converts a successful parse into a transaction draft.
func (r SMSResult) Transaction(accountID string, at time.Time) model.Transaction {
	return model.Transaction{
		AccountID: accountID,
		Amount:    r.Amount,
		Direction: r.Direction,
		Category:  "other",
		Merchant:  r.Merchant,
		Source:    model.SourceSMS,
		RawData:   r.RawText,
		Date:      at,
	}
}

// IsBankSMS reports whether a message looks like a bank transaction
// notice and is worth handing to ParseSMS.
func IsBankSMS(text string) bool {
	for _, kw := range bankKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ParseSMS matches a message against the per-bank pattern table, then
// the generic patterns.
func ParseSMS(text string) SMSResult {
	result := SMSResult{RawText: text}

	expense, income := genericExpense, genericIncome
	balance, card := genericBalance, genericCard
	for _, bank := range bankPatterns {
		if containsAny(text, bank.keywords) {
			result.BankName = bank.name
			expense, income = bank.expense, bank.income
			balance, card = bank.balance, bank.card
			break
		}
	}

	if amount, ok := firstAmount(expense, text); ok {
		result.Success = true
		result.Amount = amount
		result.Direction = model.Expense
	} else if amount, ok := firstAmount(income, text); ok {
		result.Success = true
		result.Amount = amount
		result.Direction = model.Income
	}

	if m := card.FindStringSubmatch(text); m != nil {
		result.CardLast4 = m[1]
	}
	if m := balance.FindStringSubmatch(text); m != nil {
		if d, err := decimal.NewFromString(m[1]); err == nil {
			result.Balance = d
			result.HasBalance = true
		}
	}
	for _, p := range smsMerchant {
		if m := p.FindStringSubmatch(text); m != nil {
			result.Merchant = strings.TrimSpace(m[1])
			break
		}
	}
	return result
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
