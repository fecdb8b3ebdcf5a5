package handlers

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/softblue/bank_backend/internal/core/domain"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the enum tags used by the request DTOs to gin's validator.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
			return domain.AccountType(normalise(fl.Field().String())).IsValid()
		})
		_ = v.RegisterValidation("txntype", func(fl validator.FieldLevel) bool {
			return domain.TransactionType(normalise(fl.Field().String())).IsValid()
		})
		_ = v.RegisterValidation("customertype", func(fl validator.FieldLevel) bool {
			return domain.CustomerType(normalise(fl.Field().String())).IsValid()
		})
	})
}

func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
