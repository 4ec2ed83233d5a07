package mongo

import (
	apperrors "devevents/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// TranslateDuplicateKey turns a duplicate-key write failure into a
// UniqueConstraintError on the given field. Other errors are returned as is.
func TranslateDuplicateKey(err error, collection, field, value string) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return &apperrors.UniqueConstraintError{
		Collection: collection,
		Field:      field,
		Value:      value,
		Err:        err,
	}
}
