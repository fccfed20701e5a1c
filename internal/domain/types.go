// Package domain defines the immutable statement model produced by the
// parsing pipeline, plus the typed errors the pipeline reports.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one posted line item from the statement's transaction
// table. Instances are immutable after construction; use NewTransaction.
type Transaction struct {
	activityDate    time.Time
	postDate        time.Time
	referenceNumber string
	description     string
	// Sign convention:
	//   Positive = purchase/spend
	//   Negative = payment or credit (trailing CR marker in the document)
	amount decimal.Decimal
}

// ActivityDate returns the date the transaction occurred.
func (t *Transaction) ActivityDate() time.Time { return t.activityDate }

// PostDate returns the date the transaction posted to the account.
func (t *Transaction) PostDate() time.Time { return t.postDate }

// ReferenceNumber returns the opaque reference token, unique per statement.
func (t *Transaction) ReferenceNumber() string { return t.referenceNumber }

// Description returns the single-spaced merged description text.
func (t *Transaction) Description() string { return t.description }

// Amount returns the exact signed amount at 2-digit decimal scale.
func (t *Transaction) Amount() decimal.Decimal { return t.amount }

// NewTransaction creates a validated transaction. postDate must not
// precede activityDate. An empty description is allowed; some rows carry
// nothing between the reference number and the amount.
func NewTransaction(activityDate, postDate time.Time, referenceNumber, description string, amount decimal.Decimal) (*Transaction, error) {
	if activityDate.IsZero() {
		return nil, fmt.Errorf("activity date cannot be zero")
	}
	if postDate.IsZero() {
		return nil, fmt.Errorf("post date cannot be zero")
	}
	if postDate.Before(activityDate) {
		return nil, fmt.Errorf("post date %s precedes activity date %s",
			postDate.Format("2006-01-02"), activityDate.Format("2006-01-02"))
	}
	if referenceNumber == "" {
		return nil, fmt.Errorf("reference number cannot be empty")
	}

	return &Transaction{
		activityDate:    activityDate,
		postDate:        postDate,
		referenceNumber: referenceNumber,
		description:     description,
		amount:          amount,
	}, nil
}

// BalanceSummary holds the eight monetary fields from the statement's
// balance box. All values are exact decimals at 2-digit scale; a value
// carrying the document's CR marker is stored negated.
type BalanceSummary struct {
	previousBalance decimal.Decimal
	purchases       decimal.Decimal
	credits         decimal.Decimal
	fees            decimal.Decimal
	interest        decimal.Decimal
	newBalance      decimal.Decimal
	availableCredit decimal.Decimal
	minimumPayment  decimal.Decimal
}

// PreviousBalance returns the balance carried in from the prior period.
func (b BalanceSummary) PreviousBalance() decimal.Decimal { return b.previousBalance }

// Purchases returns the period's total purchases.
func (b BalanceSummary) Purchases() decimal.Decimal { return b.purchases }

// Credits returns the period's total payments and credits.
func (b BalanceSummary) Credits() decimal.Decimal { return b.credits }

// Fees returns the period's total fees charged.
func (b BalanceSummary) Fees() decimal.Decimal { return b.fees }

// Interest returns the period's total interest charged.
func (b BalanceSummary) Interest() decimal.Decimal { return b.interest }

// NewBalance returns the closing balance stated by the document.
func (b BalanceSummary) NewBalance() decimal.Decimal { return b.newBalance }

// AvailableCredit returns the remaining credit line.
func (b BalanceSummary) AvailableCredit() decimal.Decimal { return b.availableCredit }

// MinimumPayment returns the minimum payment due.
func (b BalanceSummary) MinimumPayment() decimal.Decimal { return b.minimumPayment }

// NewBalanceSummary creates a balance summary. Arithmetic consistency is
// not checked here; that is the validator's job.
func NewBalanceSummary(previousBalance, purchases, credits, fees, interest, newBalance, availableCredit, minimumPayment decimal.Decimal) BalanceSummary {
	return BalanceSummary{
		previousBalance: previousBalance,
		purchases:       purchases,
		credits:         credits,
		fees:            fees,
		interest:        interest,
		newBalance:      newBalance,
		availableCredit: availableCredit,
		minimumPayment:  minimumPayment,
	}
}

// Statement is the aggregate root. It exclusively owns its balance summary
// and transactions; constructors copy slices so callers cannot mutate a
// built statement.
type Statement struct {
	entityName         string
	primaryCardholder  string
	accountSuffix      string
	billingPeriodStart time.Time
	billingPeriodEnd   time.Time
	balanceSummary     BalanceSummary
	currentPoints      int
	transactions       []*Transaction
}

// EntityName returns the issuing entity printed on the statement.
func (s *Statement) EntityName() string { return s.entityName }

// PrimaryCardholder returns the primary cardholder name.
func (s *Statement) PrimaryCardholder() string { return s.primaryCardholder }

// AccountSuffix returns the trailing digits of the account number.
func (s *Statement) AccountSuffix() string { return s.accountSuffix }

// BillingPeriodStart returns the first day of the billing period.
func (s *Statement) BillingPeriodStart() time.Time { return s.billingPeriodStart }

// BillingPeriodEnd returns the last day of the billing period.
func (s *Statement) BillingPeriodEnd() time.Time { return s.billingPeriodEnd }

// BalanceSummary returns the statement's balance summary.
func (s *Statement) BalanceSummary() BalanceSummary { return s.balanceSummary }

// CurrentPoints returns the rewards points balance, zero when the
// statement carries no rewards section.
func (s *Statement) CurrentPoints() int { return s.currentPoints }

// Transactions returns a defensive copy of the transaction list, in
// document order. The order is never re-sorted by date.
func (s *Statement) Transactions() []*Transaction {
	return append([]*Transaction(nil), s.transactions...)
}

// TransactionCount returns the number of transactions without copying.
func (s *Statement) TransactionCount() int { return len(s.transactions) }

// NewStatement creates a validated statement aggregate. The billing period
// must be ordered and reference numbers must be unique; post dates are
// deliberately not constrained to the billing period, since statements
// legitimately carry post dates into the next cycle.
func NewStatement(entityName, primaryCardholder, accountSuffix string, billingPeriodStart, billingPeriodEnd time.Time, balance BalanceSummary, currentPoints int, transactions []*Transaction) (*Statement, error) {
	if entityName == "" {
		return nil, fmt.Errorf("entity name cannot be empty")
	}
	if primaryCardholder == "" {
		return nil, fmt.Errorf("primary cardholder cannot be empty")
	}
	if accountSuffix == "" {
		return nil, fmt.Errorf("account suffix cannot be empty")
	}
	if billingPeriodStart.IsZero() || billingPeriodEnd.IsZero() {
		return nil, fmt.Errorf("billing period cannot be zero")
	}
	if billingPeriodEnd.Before(billingPeriodStart) {
		return nil, fmt.Errorf("billing period start %s is after end %s",
			billingPeriodStart.Format("2006-01-02"), billingPeriodEnd.Format("2006-01-02"))
	}
	if currentPoints < 0 {
		return nil, fmt.Errorf("current points cannot be negative: %d", currentPoints)
	}

	seen := make(map[string]int, len(transactions))
	for i, txn := range transactions {
		if txn == nil {
			return nil, fmt.Errorf("transaction %d is nil", i)
		}
		if first, ok := seen[txn.ReferenceNumber()]; ok {
			return nil, &DuplicateReferenceError{
				Reference:   txn.ReferenceNumber(),
				FirstIndex:  first,
				SecondIndex: i,
			}
		}
		seen[txn.ReferenceNumber()] = i
	}

	return &Statement{
		entityName:         entityName,
		primaryCardholder:  primaryCardholder,
		accountSuffix:      accountSuffix,
		billingPeriodStart: billingPeriodStart,
		billingPeriodEnd:   billingPeriodEnd,
		balanceSummary:     balance,
		currentPoints:      currentPoints,
		transactions:       append([]*Transaction(nil), transactions...),
	}, nil
}
