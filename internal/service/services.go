package service

import (
	"github.com/suntzu974/papang/internal/service/auth"
	"github.com/suntzu974/papang/internal/service/expense"
)

type Collection struct {
	AuthService    *auth.AuthService
	ExpenseService *expense.ExpenseService
}
