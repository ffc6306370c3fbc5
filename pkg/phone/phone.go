// Package phone normalise les numéros mobiles pour le rapprochement.
// Les numéros ivoiriens circulent sous plusieurs formes (+225 07 xx,
// 00225 07xx, 07xx…) ; la comparaison se fait sur un suffixe de longueur
// configurable pour tolérer les variantes d'indicatif.
package phone

import "strings"

// DefaultSuffixLen longueur de suffixe par défaut : les 10 chiffres du plan
// de numérotation ivoirien, sans indicatif.
const DefaultSuffixLen = 10

// Normalize supprime tout caractère non numérique.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Suffix renvoie les n derniers chiffres du numéro normalisé.
// Si le numéro est plus court que n, il est renvoyé entier.
func Suffix(raw string, n int) string {
	digits := Normalize(raw)
	if n <= 0 || len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}

// SameNumber compare deux numéros sur leur suffixe de longueur n.
// Deux numéros vides ne se rapprochent jamais.
func SameNumber(a, b string, n int) bool {
	sa, sb := Suffix(a, n), Suffix(b, n)
	if sa == "" || sb == "" {
		return false
	}
	return sa == sb
}
