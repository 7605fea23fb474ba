package costing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveBasePlainItem(t *testing.T) {
	item := Item{Kind: KindWork, Quantity: d("4"), UnitRate: d("250.5")}
	assert.True(t, ResolveBase(item, nil).Equal(d("1002")))
}

func TestResolveBaseCurrencyMultiplier(t *testing.T) {
	item := Item{Kind: KindWork, Quantity: d("2"), UnitRate: d("100"), CurrencyMultiplier: d("90.5")}
	assert.True(t, ResolveBase(item, nil).Equal(d("18100")))

	// Unset multiplier behaves as local currency.
	item.CurrencyMultiplier = d("0")
	assert.True(t, ResolveBase(item, nil).Equal(d("200")))
}

func TestResolveBaseLinkedQuantity(t *testing.T) {
	workID := uuid.New()
	work := Item{ID: workID, Kind: KindWork, Quantity: d("10"), UnitRate: d("500")}
	material := Item{
		ID:       uuid.New(),
		Kind:     KindMaterial,
		Subtype:  SubtypeMain,
		Quantity: d("999"), // own quantity must be ignored when the link resolves
		UnitRate: d("20"),
		Link: &WorkLink{
			WorkItemID:             workID,
			ConsumptionCoefficient: d("1.5"),
			ConversionCoefficient:  d("2"),
		},
	}

	// 10 * 1.5 * 2 = 30 units at rate 20
	assert.True(t, ResolveBase(material, []Item{work, material}).Equal(d("600")))
}

func TestResolveBaseLinkCoefficientsDefaultToOne(t *testing.T) {
	workID := uuid.New()
	work := Item{ID: workID, Kind: KindSubcontractWork, Quantity: d("7"), UnitRate: d("1")}
	material := Item{
		Kind:     KindSubcontractMaterial,
		Quantity: d("1"),
		UnitRate: d("10"),
		Link:     &WorkLink{WorkItemID: workID},
	}

	assert.True(t, ResolveBase(material, []Item{work}).Equal(d("70")))
}

func TestResolveBaseDanglingLinkFallsBack(t *testing.T) {
	material := Item{
		Kind:     KindMaterial,
		Quantity: d("3"),
		UnitRate: d("50"),
		Link:     &WorkLink{WorkItemID: uuid.New()},
	}

	// Linked work is missing — soft-fail to the item's own quantity.
	assert.True(t, ResolveBase(material, nil).Equal(d("150")))
}

func TestResolveBaseLinkToNonWorkIgnored(t *testing.T) {
	otherID := uuid.New()
	other := Item{ID: otherID, Kind: KindMaterial, Quantity: d("100"), UnitRate: d("1")}
	material := Item{
		Kind:     KindMaterial,
		Quantity: d("2"),
		UnitRate: d("10"),
		Link:     &WorkLink{WorkItemID: otherID},
	}

	assert.True(t, ResolveBase(material, []Item{other}).Equal(d("20")))
}

func TestResolveBaseDeliverySurcharge(t *testing.T) {
	cases := []struct {
		name   string
		kind   ItemKind
		mode   DeliveryMode
		amount string
		want   string
	}{
		{"fixed amount material", KindMaterial, DeliveryFixedAmount, "5", "210"},
		{"not included material", KindMaterial, DeliveryNotIncluded, "5", "210"},
		{"included material gets none", KindMaterial, DeliveryIncluded, "5", "200"},
		{"zero amount gets none", KindMaterial, DeliveryFixedAmount, "0", "200"},
		{"work never gets one", KindWork, DeliveryFixedAmount, "5", "200"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := Item{
				Kind:                  tc.kind,
				Quantity:              d("2"),
				UnitRate:              d("100"),
				DeliveryMode:          tc.mode,
				DeliveryAmountPerUnit: d(tc.amount),
			}
			got := ResolveBase(item, nil)
			assert.True(t, got.Equal(d(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestResolveBaseDeliveryUsesLinkedQuantity(t *testing.T) {
	workID := uuid.New()
	work := Item{ID: workID, Kind: KindWork, Quantity: d("4"), UnitRate: d("0")}
	material := Item{
		Kind:                  KindMaterial,
		Quantity:              d("1"),
		UnitRate:              d("100"),
		DeliveryMode:          DeliveryFixedAmount,
		DeliveryAmountPerUnit: d("10"),
		Link:                  &WorkLink{WorkItemID: workID},
	}

	// quantity resolves to 4: base 400 + delivery 40
	assert.True(t, ResolveBase(material, []Item{work}).Equal(d("440")))
}
