package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/usecase"
)

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		usecase.ErrValidation,
		usecase.ErrEmptyAssignees,
		usecase.ErrTaskNotFound,
		usecase.ErrParentNotFound,
		usecase.ErrInvalidParent,
		usecase.ErrNoIdentity,
		usecase.ErrInvalidToken,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			gt.Bool(t, errors.Is(a, b)).False()
		}
	}
}
