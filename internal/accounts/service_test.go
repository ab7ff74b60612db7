package accounts

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmk-dev/rmk/internal/model"
)

func TestNewService(t *testing.T) {
	dict := DefaultDictionary()
	svc := NewService(dict)
	assert.Len(t, svc.All(), len(dict))
}

func TestNewService_DropsDuplicates(t *testing.T) {
	svc := NewService([]model.Account{
		{ID: 1, Name: "first"},
		{ID: 1, Name: "second"},
	})
	require.Len(t, svc.All(), 1)
	acct, _ := svc.Get(1)
	assert.Equal(t, "first", acct.Name)
}

func TestGetExists(t *testing.T) {
	svc := NewService(DefaultDictionary())

	acct, ok := svc.Get(640)
	assert.True(t, ok)
	assert.Equal(t, "Rozliczenia międzyokresowe kosztów czynne", acct.Name)

	_, ok = svc.Get(9999)
	assert.False(t, ok)

	assert.True(t, svc.Exists(402))
	assert.False(t, svc.Exists(9999))
}

func TestAdd(t *testing.T) {
	svc := NewService(nil)

	require.NoError(t, svc.Add(model.Account{ID: 500, Name: "  Koszty  "}))
	acct, ok := svc.Get(500)
	require.True(t, ok)
	assert.Equal(t, "Koszty", acct.Name)

	err := svc.Add(model.Account{ID: 500, Name: "Again"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	err = svc.Add(model.Account{ID: 501, Name: "   "})
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.False(t, svc.Exists(501))
}

func TestSetDescription(t *testing.T) {
	svc := NewService(DefaultDictionary())

	require.NoError(t, svc.SetDescription(401, "Materials"))
	acct, _ := svc.Get(401)
	assert.Equal(t, "Materials", acct.Description)

	assert.ErrorIs(t, svc.SetDescription(9999, "x"), ErrNotFound)
}

func TestAll_SortedAndCopied(t *testing.T) {
	svc := NewService([]model.Account{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
	all := svc.All()
	assert.Equal(t, []int{1, 2, 3}, []int{all[0].ID, all[1].ID, all[2].ID})

	all[0].Name = "changed"
	acct, _ := svc.Get(1)
	assert.Equal(t, "a", acct.Name)
}

func TestSaveLoad(t *testing.T) {
	dict := DefaultDictionary()
	svc := NewService(dict)
	require.NoError(t, svc.Add(model.Account{ID: 700, Name: "Custom", Description: "with, comma"}))

	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))

	_, err := os.Stat(Path(dir))
	require.NoError(t, err)

	svc2, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc2.All(), len(dict)+1)

	for _, orig := range dict {
		got, ok := svc2.Get(orig.ID)
		require.True(t, ok, "account %d should exist", orig.ID)
		assert.Equal(t, orig, got)
	}
	got, _ := svc2.Get(700)
	assert.Equal(t, "with, comma", got.Description)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
