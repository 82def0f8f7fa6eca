// Package service defines the interfaces between the converter stages.
package service

import (
	"context"
	"io"

	"github.com/Veraticus/paypal-ofx/internal/model"
)

// StatementWriter serializes a statement.
type StatementWriter interface {
	Write(ctx context.Context, w io.Writer, stmt *model.Statement) error
}

// StatementReader reads statements back from a serialized document.
type StatementReader interface {
	ParseFile(ctx context.Context, r io.Reader) ([]*model.Statement, error)
}
