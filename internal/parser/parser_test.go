package parser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/model"
)

func TestParseNotificationWeChatExpense(t *testing.T) {
	r := ParseNotification("com.tencent.mm", "微信支付: 你在瑞幸咖啡消费了19.90元")
	if !r.Success {
		t.Fatal("parse failed")
	}
	if r.Source != SourceWeChat {
		t.Fatalf("source = %s, want wechat", r.Source)
	}
	if !r.Amount.Equal(decimal.RequireFromString("19.90")) {
		t.Fatalf("amount = %s, want 19.90", r.Amount)
	}
	if r.Direction != model.Expense {
		t.Fatalf("direction = %s, want expense", r.Direction)
	}
	if r.Merchant != "瑞幸咖啡" {
		t.Fatalf("merchant = %q", r.Merchant)
	}
}

func TestParseNotificationWeChatIncome(t *testing.T) {
	r := ParseNotification("com.tencent.mm", "收到张三转账200.00元")
	if !r.Success || r.Direction != model.Income {
		t.Fatalf("r = %+v, want income success", r)
	}
	if !r.Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("amount = %s, want 200", r.Amount)
	}
	if r.Merchant != "张三" {
		t.Fatalf("merchant = %q, want 张三", r.Merchant)
	}
}

func TestParseNotificationAlipayByKeyword(t *testing.T) {
	// No package name; routing falls back to the text keyword.
	r := ParseNotification("", "支付宝: 你已成功付款88.00元给肯德基")
	if !r.Success || r.Source != SourceAlipay {
		t.Fatalf("r = %+v, want alipay success", r)
	}
	if r.Direction != model.Expense || !r.Amount.Equal(decimal.NewFromInt(88)) {
		t.Fatalf("r = %+v", r)
	}
	if r.Merchant != "肯德基" {
		t.Fatalf("merchant = %q, want 肯德基", r.Merchant)
	}
}

func TestParseNotificationAlipayRefund(t *testing.T) {
	r := ParseNotification(alipayPackage, "支付宝: 商家退款35.50元")
	if !r.Success || r.Direction != model.Income {
		t.Fatalf("r = %+v, want income success", r)
	}
}

func TestParseNotificationUnknownApp(t *testing.T) {
	r := ParseNotification("com.example.other", "some unrelated text 12.00")
	if r.Success || r.Source != SourceUnknown {
		t.Fatalf("r = %+v, want unknown failure", r)
	}
}

func TestNotificationTransactionDraft(t *testing.T) {
	r := ParseNotification("com.tencent.mm", "微信支付: 你在商店消费了10.00元")
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	tx := r.Transaction("acc-1", at)
	if tx.Source != model.SourceNotification || tx.AccountID != "acc-1" || !tx.Date.Equal(at) {
		t.Fatalf("tx = %+v", tx)
	}
	if tx.RawData == "" {
		t.Fatal("raw text not carried into transaction")
	}
}

func TestParseSMSKnownBank(t *testing.T) {
	r := ParseSMS("【工商银行】您尾号1234的储蓄卡于06月01日消费支出人民币568.00元，余额12345.67元。")
	if !r.Success {
		t.Fatal("parse failed")
	}
	if r.BankName != "工商银行" {
		t.Fatalf("bank = %q", r.BankName)
	}
	if r.Direction != model.Expense || !r.Amount.Equal(decimal.NewFromInt(568)) {
		t.Fatalf("r = %+v", r)
	}
	if r.CardLast4 != "1234" {
		t.Fatalf("card = %q, want 1234", r.CardLast4)
	}
	if !r.HasBalance || !r.Balance.Equal(decimal.RequireFromString("12345.67")) {
		t.Fatalf("balance = %+v", r)
	}
}

func TestParseSMSIncome(t *testing.T) {
	r := ParseSMS("【建设银行】您尾号8800的账户收入5000.00元，余额8123.45元")
	if !r.Success || r.Direction != model.Income {
		t.Fatalf("r = %+v, want income", r)
	}
	if !r.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("amount = %s, want 5000", r.Amount)
	}
}

func TestParseSMSGenericFallback(t *testing.T) {
	r := ParseSMS("您的账户到账¥300.00，尾号5678")
	if !r.Success || r.Direction != model.Income {
		t.Fatalf("r = %+v, want generic income", r)
	}
	if r.BankName != "" {
		t.Fatalf("bank = %q, want empty for generic match", r.BankName)
	}
	if r.CardLast4 != "5678" {
		t.Fatalf("card = %q", r.CardLast4)
	}
}

func TestParseSMSNoMatch(t *testing.T) {
	r := ParseSMS("验证码 482913，5分钟内有效")
	if r.Success {
		t.Fatalf("r = %+v, want failure for a verification code", r)
	}
}

func TestIsBankSMS(t *testing.T) {
	if !IsBankSMS("【招商银行】消费100元") {
		t.Fatal("bank SMS not recognized")
	}
	if IsBankSMS("hello world") {
		t.Fatal("plain text misclassified as bank SMS")
	}
}
