package utils

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugifyTurkishTitles(t *testing.T) {
	cases := map[string]string{
		"Genel Kurul":                     "genel-kurul",
		"Sendika Bülteni – Mart 2024!!":   "sendika-bulteni-mart-2024",
		"Çalışma Şartları ve Ücretler":    "calisma-sartlari-ve-ucretler",
		"İŞÇİ HAKLARI":                    "isci-haklari",
		"Basın Açıklaması (Öğleden Önce)": "basin-aciklamasi-ogleden-once",
		"  Toplu   İş Sözleşmesi  ":       "toplu-is-sozlesmesi",
		"--- already -- hyphenated ---":   "already-hyphenated",
	}
	for title, want := range cases {
		assert.Equal(t, want, Slugify(title), "title %q", title)
	}
}

func TestSlugifyShapeInvariants(t *testing.T) {
	titles := []string{
		"Genel Kurul",
		"Sendika Bülteni – Mart 2024!!",
		"a        b",
		"Düğün & Dernek %100",
		"ÜÇ beş? yedi!",
		"x",
		"1 Mayıs",
	}
	for _, title := range titles {
		slug := Slugify(title)
		require.NotEmpty(t, slug, "title %q", title)
		assert.Regexp(t, slugShape, slug, "title %q", title)
	}
}

func TestSlugifyEmptyResult(t *testing.T) {
	for _, title := range []string{"", "!!!", "–––", "???!", "   "} {
		assert.Empty(t, Slugify(title), "title %q", title)
	}
}

func TestUniqueSlugSuffixes(t *testing.T) {
	taken := map[string]bool{}
	exists := func(_ context.Context, slug string) (bool, error) {
		return taken[slug], nil
	}

	ctx := context.Background()

	slug, err := UniqueSlug(ctx, "Genel Kurul", exists)
	require.NoError(t, err)
	assert.Equal(t, "genel-kurul", slug)
	taken[slug] = true

	slug, err = UniqueSlug(ctx, "Genel Kurul", exists)
	require.NoError(t, err)
	assert.Equal(t, "genel-kurul-1", slug)
	taken[slug] = true

	slug, err = UniqueSlug(ctx, "Genel Kurul!!", exists)
	require.NoError(t, err)
	assert.Equal(t, "genel-kurul-2", slug)
}

func TestUniqueSlugEmptyTitleRejected(t *testing.T) {
	exists := func(_ context.Context, _ string) (bool, error) { return false, nil }
	_, err := UniqueSlug(context.Background(), "!!!", exists)
	assert.ErrorIs(t, err, ErrEmptySlug)
}
