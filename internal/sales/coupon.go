package sales

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/models"
)

// validateCoupon checks temporal validity, usage exhaustion and
// applicability to the item set, returning the discount policy to feed
// the pricing calculator.
func (s *Service) validateCoupon(ctx context.Context, code string, productIDs []primitive.ObjectID) (DiscountPolicy, *models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	coupon, err := s.coupons.FindCouponByCode(ctx, code)
	if err != nil {
		return DiscountPolicy{}, nil, internalErr("Error al validar el cupón", err)
	}
	if coupon == nil {
		return DiscountPolicy{}, nil, invalidStatef("Cupón '%s' inválido", code)
	}
	if !coupon.IsValidAt(time.Now()) || coupon.IsExhausted() {
		return DiscountPolicy{}, nil, invalidStatef("Cupón '%s' inválido", code)
	}

	if len(coupon.ProductIDs) > 0 {
		applicable := make(map[primitive.ObjectID]bool, len(coupon.ProductIDs))
		for _, id := range coupon.ProductIDs {
			applicable[id] = true
		}
		matches := false
		for _, id := range productIDs {
			if applicable[id] {
				matches = true
				break
			}
		}
		if !matches {
			return DiscountPolicy{}, nil, invalidStatef("Cupón '%s' no aplicable", code)
		}
	}

	policy := DiscountPolicy{}
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		policy.Percent = coupon.DiscountValue
	case models.DiscountFixed:
		policy.Fixed = coupon.DiscountValue
	default:
		return DiscountPolicy{}, nil, invalidStatef("Cupón '%s' inválido", code)
	}
	return policy, coupon, nil
}
