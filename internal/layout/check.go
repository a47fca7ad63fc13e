package layout

import (
	"github.com/pqinterop/crossverify/internal/rounderrors"
)

// Check asserts that b has the exact declared length of kind k. Kinds
// without a fixed size are checked against their capacity instead.
func Check(f Family, format Format, k Kind, b []byte) error {
	want, ok := Size(f, format, k)
	if !ok {
		return CheckMax(f, format, k, b)
	}
	if len(b) != want {
		return &rounderrors.LengthError{
			Family: string(f), Format: string(format), Artifact: string(k),
			Got: len(b), Want: want,
		}
	}
	return nil
}

// CheckMax asserts that b fits the read capacity of kind k.
func CheckMax(f Family, format Format, k Kind, b []byte) error {
	limit := MaxSize(f, format, k)
	if len(b) > limit {
		return &rounderrors.LengthError{
			Family: string(f), Format: string(format), Artifact: string(k),
			Got: len(b), Want: limit, Max: true,
		}
	}
	return nil
}
