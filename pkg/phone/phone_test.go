package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "2250700000000", Normalize("+225 07 00 00 00 00"))
	assert.Equal(t, "0700000000", Normalize("07-00-00-00-00"))
	assert.Equal(t, "", Normalize("abc"))
}

func TestSuffix(t *testing.T) {
	assert.Equal(t, "0700000000", Suffix("+2250700000000", 10))
	assert.Equal(t, "0700000000", Suffix("0700000000", 10))
	// Numéro plus court que le suffixe demandé : renvoyé entier
	assert.Equal(t, "12345", Suffix("12345", 10))
}

func TestSameNumber(t *testing.T) {
	// Même numéro, indicatif présent d'un seul côté
	assert.True(t, SameNumber("+225 07 00 00 00 00", "0700000000", 10))
	assert.True(t, SameNumber("002250759999999", "+2250759999999", 10))
	assert.False(t, SameNumber("0700000000", "0700000001", 10))
	// Les numéros vides ne se rapprochent jamais
	assert.False(t, SameNumber("", "", 10))
	assert.False(t, SameNumber("0700000000", "", 10))
}
