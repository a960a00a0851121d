package vocab

import (
	"errors"
	"fmt"
)

// ErrInvalidCategory is the sentinel kind matched by every InvalidCategoryError.
var ErrInvalidCategory = errors.New("invalid category")

// InvalidCategoryError reports a label outside its fixed vocabulary.
type InvalidCategoryError struct {
	Field string
	Value string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("%s: %s %q is not a known value", ErrInvalidCategory, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrInvalidCategory) hold.
func (e *InvalidCategoryError) Is(target error) bool {
	return target == ErrInvalidCategory
}
