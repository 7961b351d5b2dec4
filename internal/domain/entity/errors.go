package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousComparison taqqoslashda bir yoki ikkala nom aniq topilmadi
	ErrAmbiguousComparison = errors.New("comparison names could not be resolved uniquely")

	// ErrCatalogNotLoaded snapshot hali yuklanmagan
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)

// SourceFormatError katalog/link manbasida yaroqsiz tuzilma
type SourceFormatError struct {
	Source string
	Reason string
	Err    error
}

func (e *SourceFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func (e *SourceFormatError) Unwrap() error {
	return e.Err
}
