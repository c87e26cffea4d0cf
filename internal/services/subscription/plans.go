package subscription

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

type planKey struct {
	Type   string
	Period string
}

// Цены тарифных планов за период.
var planPrices = map[planKey]decimal.Decimal{
	{models.SubscriptionTypeDefault, models.SubscriptionPeriodMonthly}:  decimal.Zero,
	{models.SubscriptionTypeDefault, models.SubscriptionPeriodYearly}:   decimal.Zero,
	{models.SubscriptionTypePremium, models.SubscriptionPeriodMonthly}:  decimal.RequireFromString("19.99"),
	{models.SubscriptionTypePremium, models.SubscriptionPeriodYearly}:   decimal.RequireFromString("199.99"),
	{models.SubscriptionTypeUltimate, models.SubscriptionPeriodMonthly}: decimal.RequireFromString("49.99"),
	{models.SubscriptionTypeUltimate, models.SubscriptionPeriodYearly}:  decimal.RequireFromString("499.99"),
}

// PlanPrice возвращает цену плана для пары (тип, период).
func PlanPrice(subscriptionType, period string) (decimal.Decimal, error) {
	price, ok := planPrices[planKey{subscriptionType, period}]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown plan %s/%s", subscriptionType, period)
	}
	return price, nil
}
