package domain

// GroupID identifies the ownership boundary of accounts and transfers.
type GroupID string

// AccountID identifies an account.
type AccountID string

// TransferID identifies a transfer.
type TransferID string

func (id GroupID) String() string    { return string(id) }
func (id AccountID) String() string  { return string(id) }
func (id TransferID) String() string { return string(id) }
