package ofx

import (
	"strings"

	"github.com/Veraticus/spendcraft/internal/model"
)

// keywordHints maps merchant substrings to a category. First match wins.
var keywordHints = []struct {
	keyword  string
	category model.Category
}{
	{"UBER", model.CategoryTransport},
	{"LYFT", model.CategoryTransport},
	{"SHELL", model.CategoryTransport},
	{"FUEL", model.CategoryTransport},
	{"PARKING", model.CategoryTransport},
	{"STARBUCKS", model.CategoryFood},
	{"RESTAURANT", model.CategoryFood},
	{"SWIGGY", model.CategoryFood},
	{"ZOMATO", model.CategoryFood},
	{"WHOLE FOODS", model.CategoryFood},
	{"NETFLIX", model.CategoryEntertainment},
	{"SPOTIFY", model.CategoryEntertainment},
	{"CINEMA", model.CategoryEntertainment},
	{"AMAZON", model.CategoryShopping},
	{"FLIPKART", model.CategoryShopping},
	{"PHARMACY", model.CategoryHealth},
	{"ELECTRIC", model.CategoryBills},
	{"INSURANCE", model.CategoryBills},
	{"TUITION", model.CategoryEducation},
}

// categoryHint guesses a category from the OFX transaction type and the
// payee. OFX carries no categories of its own.
func categoryHint(trnType, description string, amount float64) model.Category {
	switch trnType {
	case "INT", "DIV":
		return model.CategoryIncome
	case "FEE", "SRVCHG":
		return model.CategoryBills
	case "CREDIT", "DEP", "DIRECTDEP":
		if amount > 0 {
			return model.CategoryIncome
		}
	}

	upper := strings.ToUpper(description)
	for _, hint := range keywordHints {
		if strings.Contains(upper, hint.keyword) {
			return hint.category
		}
	}

	if amount > 0 {
		return model.CategoryIncome
	}
	return model.CategoryOther
}
