package service

import (
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("alphanum_underscore", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for i, char := range value {
				// Cannot be started with a digit or underscore
				if i == 0 && (unicode.IsDigit(char) || char == '_') {
					return false
				}
				// Digits, letters or underscore
				if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' {
					return false
				}
			}
			return true
		})
		// Language identifiers like "es", "pt-br": 2-3 lowercase letters
		// with an optional lowercase region subtag
		validate.RegisterValidation("language_code", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			main, region, found := value, "", false
			for i, char := range value {
				if char == '-' {
					if found {
						return false
					}
					main, region, found = value[:i], value[i+1:], true
					continue
				}
				if !unicode.IsLower(char) {
					return false
				}
			}
			if len(main) < 2 || len(main) > 3 {
				return false
			}
			if found && (len(region) < 2 || len(region) > 4) {
				return false
			}
			return true
		})
	})
}
