// Package parser extracts transactions from payment notifications and
// bank SMS text. Parsing is best-effort pattern matching; a failed
// parse is a normal outcome, not an error.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

// NotificationSource identifies which payment app produced a notification.
type NotificationSource string

const (
	SourceWeChat  NotificationSource = "wechat"
	SourceAlipay  NotificationSource = "alipay"
	SourceUnknown NotificationSource = "unknown"
)

// Package names of the supported payment apps.
const (
	wechatPackage = "com.tencent.mm"
	alipayPackage = "com.eg.android.AlipayGphone"
)

// NotificationResult is the outcome of parsing one notification.
type NotificationResult struct {
	Success   bool
	Source    NotificationSource
	Amount    decimal.Decimal
	Direction model.Direction
	Merchant  string
	RawText   string
}

// Transaction converts a successful parse into a transaction draft for
// the given account. Call only when Success is true.
func (r NotificationResult) Transaction(accountID string, at time.Time) model.Transaction {
	return model.Transaction{
		AccountID: accountID,
		Amount:    r.Amount,
		Direction: r.Direction,
		Category:  "other",
		Merchant:  r.Merchant,
		Source:    model.SourceNotification,
		RawData:   r.RawText,
		Date:      at,
	}
}

var (
	wechatExpense = []*regexp.Regexp{
		regexp.MustCompile(`消费了?(\d+\.?\d*)元`),
		regexp.MustCompile(`支付(\d+\.?\d*)元`),
		regexp.MustCompile(`付款(\d+\.?\d*)元`),
		regexp.MustCompile(`扣款(\d+\.?\d*)元`),
	}
	wechatIncome = []*regexp.Regexp{
		regexp.MustCompile(`收款(\d+\.?\d*)元`),
		regexp.MustCompile(`收到.*?(\d+\.?\d*)元`),
		regexp.MustCompile(`到账(\d+\.?\d*)元`),
	}
	wechatMerchant = []*regexp.Regexp{
		regexp.MustCompile(`在(.+?)消费`),
		regexp.MustCompile(`向(.+?)付款`),
		regexp.MustCompile(`收到(.+?)转账`),
	}

	alipayExpense = []*regexp.Regexp{
		regexp.MustCompile(`付款(\d+\.?\d*)元`),
		regexp.MustCompile(`消费(\d+\.?\d*)元`),
		regexp.MustCompile(`支付(\d+\.?\d*)元`),
		regexp.MustCompile(`扣款(\d+\.?\d*)元`),
	}
	alipayIncome = []*regexp.Regexp{
		regexp.MustCompile(`收到.*?(\d+\.?\d*)元`),
		regexp.MustCompile(`到账(\d+\.?\d*)元`),
		regexp.MustCompile(`转入(\d+\.?\d*)元`),
		regexp.MustCompile(`退款(\d+\.?\d*)元`),
	}
	alipayMerchant = []*regexp.Regexp{
		regexp.MustCompile(`付款.*?给(.+?)$`),
		regexp.MustCompile(`在(.+?)消费`),
		regexp.MustCompile(`收到(.+?)转账`),
		regexp.MustCompile(`(.+?)退款`),
	}
)

// ParseNotification routes a notification to the right app parser
// based on the Android package name, falling back to keywords in the
// text.
func ParseNotification(packageName, text string) NotificationResult {
	switch {
	case packageName == wechatPackage || strings.Contains(text, "微信"):
		return parseAppNotification(SourceWeChat, text, wechatExpense, wechatIncome, wechatMerchant)
	case packageName == alipayPackage || strings.Contains(text, "支付宝"):
		return parseAppNotification(SourceAlipay, text, alipayExpense, alipayIncome, alipayMerchant)
	default:
		return NotificationResult{Source: SourceUnknown, RawText: text}
	}
}

func parseAppNotification(src NotificationSource, text string, expense, income, merchant []*regexp.Regexp) NotificationResult {
	result := NotificationResult{Source: src, RawText: text}

	if amount, ok := firstAmount(expense, text); ok {
		result.Success = true
		result.Amount = amount
		result.Direction = model.Expense
	} else if amount, ok := firstAmount(income, text); ok {
		result.Success = true
		result.Amount = amount
		result.Direction = model.Income
	}

	for _, p := range merchant {
		if m := p.FindStringSubmatch(text); m != nil {
			result.Merchant = strings.TrimSpace(m[1])
			break
		}
	}
	return result
}

func firstAmount(patterns []*regexp.Regexp, text string) (decimal.Decimal, bool) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, err := decimal.NewFromString(m[1])
		if err != nil || !d.IsPositive() {
			continue
		}
		return d, true
	}
	return decimal.Zero, false
}
