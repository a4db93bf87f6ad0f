package models

import (
	"github.com/pkg/errors"
)

func errEmpty(field string) error {
	return errors.Errorf("empty %s provided", field)
}
