package catalog

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kafanski-duel/internal/model"
)

type CatalogSuite struct {
	suite.Suite
	catalog *Catalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	s.catalog = Default()
}

func (s *CatalogSuite) TestDefaultHasEveryCategory() {
	byCategory := s.catalog.ByCategory()
	for _, c := range Categories {
		s.NotEmpty(byCategory[c], "category %s", c)
	}
}

func (s *CatalogSuite) TestDefaultHasFreeSpecial() {
	zdravica, ok := s.catalog.Get("zdravica")
	s.Require().True(ok)
	s.Equal(CategorySpecijal, zdravica.Category)
	s.Equal(0, zdravica.Cost)
	s.Equal(0, zdravica.MaxUses)
}

func (s *CatalogSuite) TestGetUnknown() {
	_, ok := s.catalog.Get("sampanjac")
	s.False(ok)
}

func (s *CatalogSuite) TestByCategoryKeepsTableOrder() {
	pice := s.catalog.ByCategory()[CategoryPice]
	s.Require().Len(pice, 4)
	s.Equal("rakija", pice[0].Key)
	s.Equal("tura_za_sve", pice[3].Key)
}

func (s *CatalogSuite) TestAllReturnsCopy() {
	all := s.catalog.All()
	all[0].Cost = 999

	rakija, _ := s.catalog.Get(all[0].Key)
	s.NotEqual(999, rakija.Cost)
	s.NotEqual(999, s.catalog.All()[0].Cost)
}

func (s *CatalogSuite) TestAffordable() {
	a := Action{Key: "x", Cost: 10}
	s.True(Affordable(a, 10))
	s.True(Affordable(a, 11))
	s.False(Affordable(a, 9))
	s.True(Affordable(Action{Key: "free"}, 0))
}

func (s *CatalogSuite) TestUsesLeft() {
	limited := Action{Key: "pesma", MaxUses: 2}
	state := model.CombatState{SpecialsUsed: map[string]int{}}

	s.Equal(2, UsesLeft(limited, state))
	state.SpecialsUsed["pesma"] = 1
	s.Equal(1, UsesLeft(limited, state))
	s.True(Available(limited, state))
	state.SpecialsUsed["pesma"] = 2
	s.Equal(0, UsesLeft(limited, state))
	s.False(Available(limited, state))

	unlimited := Action{Key: "zdravica"}
	s.Equal(-1, UsesLeft(unlimited, state))
	s.True(Available(unlimited, model.CombatState{}))
}

func (s *CatalogSuite) TestOffersAnnotateWallet() {
	state := model.CombatState{
		Novcanik:     10,
		SpecialsUsed: map[string]int{"lomljenje_casa": 1},
	}

	offers := s.catalog.Offers(state)
	s.Len(offers, len(s.catalog.All()))

	byKey := map[string]Offer{}
	for _, o := range offers {
		byKey[o.Key] = o
	}
	s.True(byKey["rakija"].Affordable)
	s.False(byKey["vinjak"].Affordable)
	s.True(byKey["zdravica"].Affordable)
	s.False(byKey["lomljenje_casa"].Available)
	s.True(byKey["hladna_voda"].Available)
	s.Equal(2, byKey["hladna_voda"].UsesLeft)
}

func (s *CatalogSuite) TestRenderSubstitutesNames() {
	a := Action{Key: "x", Name: "X", Flavor: []string{"{actor} vs {opponent}", "{opponent} gleda {actor}"}}

	s.Equal("Mika vs Zika", a.Render(0, "Mika", "Zika"))
	s.Equal("Zika gleda Mika", a.Render(1, "Mika", "Zika"))
	s.Equal("Mika vs Zika", a.Render(2, "Mika", "Zika"))
	s.Equal("Zika gleda Mika", a.Render(-1, "Mika", "Zika"))
}

func (s *CatalogSuite) TestRenderWithoutFlavor() {
	a := Action{Key: "x", Name: "Kafa"}
	s.Equal("Mika: Kafa", a.Render(3, "Mika", "Zika"))
}

func (s *CatalogSuite) TestNewRejectsDuplicateKeys() {
	_, err := New(
		Action{Key: "a", Category: CategoryPice},
		Action{Key: "a", Category: CategoryHrana},
	)
	s.Error(err)
}

func (s *CatalogSuite) TestNewRejectsBadEntries() {
	_, err := New(Action{Name: "bez kljuca", Category: CategoryPice})
	s.Error(err)

	_, err = New(Action{Key: "x", Category: "desert"})
	s.Error(err)

	_, err = New(Action{Key: "x", Category: CategoryPice, Cost: -1})
	s.Error(err)
}

func (s *CatalogSuite) TestEffectApply() {
	state := model.CombatState{Alcometer: 10, Respect: 50}
	Effect{Alcometer: 5, Respect: -60}.Apply(&state)

	s.Equal(15, state.Alcometer)
	s.Equal(-10, state.Respect)
}
