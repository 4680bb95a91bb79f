package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an identity with the same email
	// is already registered.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when no identity matches the lookup.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrHistoryItemNotFound is returned when no history record has the
	// requested id.
	ErrHistoryItemNotFound = errors.New("history item was not found")

	// ErrCorruptedValue marks a stored value that is not valid JSON for its
	// key. Repositories recover from it locally and never return it.
	ErrCorruptedValue = errors.New("stored value is corrupted")

	// ErrUnsupportedDSN is returned by [NewStorages] for an unknown backend.
	ErrUnsupportedDSN = errors.New("unsupported storage dsn")

	// ErrPlaintextPassword is returned when an identity without a password
	// hash is about to be written. Plaintext passwords are never stored.
	ErrPlaintextPassword = errors.New("refusing to store a plaintext password")

	// ErrStoreClosed is returned by a key-value store after Close.
	ErrStoreClosed = errors.New("store is closed")
)

// Low-level operation errors. These are returned (or wrapped) by key-value
// backends when an I/O or SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE or
	// DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a value row fails.
	ErrScanningRow = errors.New("failed to scan value row")

	// ErrLockingFile is returned when the file lock cannot be acquired.
	ErrLockingFile = errors.New("failed to lock state file")

	// ErrReadingFile and ErrWritingFile wrap file backend I/O failures.
	ErrReadingFile = errors.New("failed to read state file")
	ErrWritingFile = errors.New("failed to write state file")
)
