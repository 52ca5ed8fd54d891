package balances

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
)

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagPattern  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// OFXFile reads ledger balances from an OFX/QFX statement on disk.
type OFXFile struct {
	Path string
}

// Name identifies the source in logs and errors.
func (f OFXFile) Name() string {
	return "ofx:" + f.Path
}

// Balances parses the file.
func (f OFXFile) Balances(ctx context.Context) ([]Balance, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OFX file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ParseOFX(ctx, f.Name(), file)
}

// ParseOFX reads the ledger balance of every bank and credit card statement in r.
func ParseOFX(ctx context.Context, source string, r io.Reader) ([]Balance, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var bals []Balance
	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		amount, _ := stmt.BalAmt.Float64()
		kind := KindCash
		if stmt.BankAcctFrom.AcctType == ofxgo.AcctTypeCreditLine {
			kind = KindCreditCard
		}
		if amount < 0 {
			// An overdrawn deposit account is money owed.
			kind = KindCreditCard
		}
		bals = append(bals, Balance{
			Source:    source,
			AccountID: string(stmt.BankAcctFrom.AcctID),
			Name:      fmt.Sprintf("%v account", stmt.BankAcctFrom.AcctType),
			Kind:      kind,
			Amount:    abs(amount),
		})
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		amount, _ := stmt.BalAmt.Float64()
		bals = append(bals, Balance{
			Source:    source,
			AccountID: string(stmt.CCAcctFrom.AcctID),
			Name:      "Credit card",
			Kind:      KindCreditCard,
			Amount:    abs(amount),
		})
	}

	slog.Info("Parsed OFX balances",
		"source", source,
		"accounts", len(bals))
	return bals, nil
}

// preprocessOFX fixes formatting issues common in bank exports.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagPattern.ReplaceAllString(content, "$1>")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
