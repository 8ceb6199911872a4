// Package view renders the presentation leaves as plain text.
package view

var messages = map[string]string{
	"common.retry":                                     "Spróbuj ponownie",
	"common.error":                                     "Wystąpił błąd podczas ładowania danych.",
	"common.previous":                                  "Poprzednia",
	"common.next":                                      "Następna",
	"bricksets.title":                                  "Zestawy LEGO",
	"bricksets.subtitle":                               "zestawów dostępnych",
	"bricksets.active":                                 "Aktywny",
	"bricksets.retired":                                "Wycofany",
	"bricksets.complete":                               "Kompletny",
	"bricksets.incomplete":                             "Niekompletny",
	"bricksets.hasInstructions":                        "Ma instrukcje",
	"bricksets.hasBox":                                 "Ma pudełko",
	"bricksets.sealed":                                 "Zapieczętowany",
	"bricksets.valuations":                             "wycen",
	"bricksets.likes":                                  "lajków",
	"bricksets.estimate":                               "Szacunek właściciela",
	"bricksets.page":                                   "Strona %d z %d",
	"bricksets.noResults":                              "Brak zestawów spełniających kryteria.",
	"bricksets.noResultsHelp":                          "Zmień filtry lub wyczyść wyszukiwanie, aby zobaczyć więcej zestawów.",
	"bricksets.create.errors.numberRequired":           "Numer zestawu jest wymagany",
	"bricksets.create.errors.numberFormat":             "Numer zestawu może zawierać tylko cyfry",
	"bricksets.create.errors.numberRange":              "Numer zestawu musi mieć maksymalnie 7 cyfr",
	"bricksets.create.errors.productionStatusRequired": "Wybierz status produkcji",
	"bricksets.create.errors.productionStatusInvalid":  "Nieprawidłowy status produkcji",
	"bricksets.create.errors.completenessRequired":     "Wybierz kompletność",
	"bricksets.create.errors.completenessInvalid":      "Nieprawidłowa kompletność",
	"bricksets.create.errors.estimateFormat":           "Szacunkowa wartość musi być liczbą całkowitą",
	"bricksets.create.errors.estimateRange":            "Szacunkowa wartość musi mieścić się w przedziale 1-999999",
	"valuation.errors.required":                        "Wartość wyceny jest wymagana",
	"valuation.errors.format":                          "Wartość wyceny musi być liczbą całkowitą",
	"valuation.errors.min":                             "Wartość wyceny musi być większa od 0",
	"valuation.errors.max":                             "Wartość wyceny nie może przekraczać 999999",
	"valuation.errors.commentTooLong":                  "Komentarz może mieć maksymalnie 2000 znaków",
	"time.justNow":                                     "przed chwilą",
	"time.minute":                                      "1 minutę temu",
	"time.minutes":                                     "%d minut temu",
	"time.hour":                                        "1 godzinę temu",
	"time.hours":                                       "%d godzin temu",
	"time.day":                                         "1 dzień temu",
	"time.days":                                        "%d dni temu",
	"register.title":                                   "Rejestracja",
	"register.success":                                 "Konto zostało utworzone. Możesz się zalogować.",
	"register.errors.usernameRequired":                 "Nazwa użytkownika jest wymagana",
	"register.errors.usernameLength":                   "Nazwa użytkownika musi mieć od 3 do 50 znaków",
	"register.errors.usernameFormat":                   "Nazwa użytkownika może zawierać tylko litery, cyfry oraz znaki . _ -",
	"register.errors.emailRequired":                    "Adres e-mail jest wymagany",
	"register.errors.emailFormat":                      "Podaj poprawny adres e-mail",
	"register.errors.passwordRequired":                 "Hasło jest wymagane",
	"register.errors.passwordLength":                   "Hasło musi mieć co najmniej 8 znaków",
	"register.errors.confirmPasswordRequired":          "Potwierdź hasło",
	"register.errors.passwordsNotMatch":                "Hasła nie są identyczne",
}

// T resolves a message key. Unknown keys are returned unchanged.
func T(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
