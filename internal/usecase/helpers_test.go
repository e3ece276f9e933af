package usecase_test

import (
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository/repotest"
	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProduct(id, title, price string) model.Product {
	return model.Product{
		ID:       id,
		Title:    title,
		Slug:     id + "-slug",
		Price:    dec(price),
		Images:   []string{"https://img.example.com/" + id + ".jpg", "https://img.example.com/" + id + "-2.jpg"},
		IsActive: true,
	}
}

func alice() session.Session {
	return session.New("user-alice", "alice@example.com", false)
}

func bob() session.Session {
	return session.New("user-bob", "bob@example.com", false)
}

func cartDeps(items *repotest.CartItems) usecase.CartDeps {
	return usecase.CartDeps{
		Items: items,
		IDs:   &repotest.SeqIDs{},
		Clock: repotest.FixedClock{T: testNow},
	}
}
