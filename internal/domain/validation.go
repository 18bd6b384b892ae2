package domain

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxDescriptionLength = 100
	MaxAccountNameLength = 255

	// Amounts outside these bounds are rejected before any arithmetic runs on them.
	MaxAmountIntegerDigits  = 18
	MaxAmountFractionDigits = 18
)

// descriptionPattern allows letters, digits, spaces and common punctuation.
var descriptionPattern = regexp.MustCompile(`^[\p{L}\p{N} .,:;!?'"()\-_/&+#%@*€$£]*$`)

// TransferCommand is an unvalidated request to move money between two accounts.
type TransferCommand struct {
	SourceAccountID AccountID
	TargetAccountID AccountID
	SourceAmount    decimal.Decimal
	TargetAmount    *decimal.Decimal
	Description     string
}

// ValidatedTransfer is a TransferCommand that passed ValidateTransfer.
type ValidatedTransfer struct {
	TransferCommand
}

// ValidateTransfer checks the shape of a transfer command. The first failing check wins.
func ValidateTransfer(cmd TransferCommand) (ValidatedTransfer, error) {
	if cmd.SourceAccountID == cmd.TargetAccountID {
		return ValidatedTransfer{}, ErrTransferToSameAccount
	}

	if !cmd.SourceAmount.IsPositive() {
		return ValidatedTransfer{}, withDetail(ErrInvalidAmount, "source amount %s must be positive", cmd.SourceAmount)
	}
	if err := ValidateAmountBounds(cmd.SourceAmount); err != nil {
		return ValidatedTransfer{}, err
	}

	if cmd.TargetAmount != nil {
		if !cmd.TargetAmount.IsPositive() {
			return ValidatedTransfer{}, withDetail(ErrInvalidAmount, "target amount %s must be positive", cmd.TargetAmount)
		}
		if err := ValidateAmountBounds(*cmd.TargetAmount); err != nil {
			return ValidatedTransfer{}, err
		}
	}

	if err := ValidateDescription(cmd.Description); err != nil {
		return ValidatedTransfer{}, err
	}

	return ValidatedTransfer{TransferCommand: cmd}, nil
}

// ValidateAmountBounds rejects amounts with too many integer or fraction
// digits. It only inspects the exponent and digit count, never the value.
func ValidateAmountBounds(amount decimal.Decimal) error {
	exp := amount.Exponent()
	if exp < -MaxAmountFractionDigits {
		return withDetail(ErrInvalidAmount, "more than %d fraction digits", MaxAmountFractionDigits)
	}
	if int64(amount.NumDigits())+int64(exp) > MaxAmountIntegerDigits {
		return withDetail(ErrInvalidAmount, "more than %d integer digits", MaxAmountIntegerDigits)
	}
	return nil
}

// ValidateDescription enforces the length limit and the allowed character set.
func ValidateDescription(description string) error {
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return withDetail(ErrDescriptionTooLong, "%d characters, at most %d allowed", n, MaxDescriptionLength)
	}

	if !utf8.ValidString(description) || !descriptionPattern.MatchString(description) {
		return ErrDescriptionInvalidCharacters
	}

	return nil
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return withDetail(ErrInvalidAccountName, "name cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxAccountNameLength {
		return withDetail(ErrInvalidAccountName, "name exceeds %d characters", MaxAccountNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return withDetail(ErrInvalidAccountName, "name contains control characters")
		}
	}

	return nil
}
