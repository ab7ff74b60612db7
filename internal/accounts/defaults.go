package accounts

import "github.com/rmk-dev/rmk/internal/model"

// DefaultDictionary returns the accounts seeded by init: the cost accounts
// of team 4 and the prepayment accounts of team 6 of the Polish chart.
func DefaultDictionary() []model.Account {
	return []model.Account{
		{ID: 400, Name: "Koszty według rodzajów", Description: "Cost by nature, collective"},
		{ID: 401, Name: "Zużycie materiałów i energii"},
		{ID: 402, Name: "Usługi obce", Description: "Software, hosting, subscriptions"},
		{ID: 403, Name: "Podatki i opłaty"},
		{ID: 404, Name: "Wynagrodzenia"},
		{ID: 405, Name: "Ubezpieczenia społeczne i inne świadczenia"},
		{ID: 409, Name: "Pozostałe koszty rodzajowe", Description: "Insurance, business travel"},
		{ID: 640, Name: "Rozliczenia międzyokresowe kosztów czynne", Description: "Prepaid costs"},
		{ID: 641, Name: "Rozliczenia międzyokresowe kosztów bierne", Description: "Accrued costs"},
	}
}
