package ngos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
)

func TestBuildNGOValidations(t *testing.T) {
	valid := RegisterInput{
		Name:          "  Lahore Relief  ",
		Description:   "Collects winter clothing for shelters.",
		ContactEmail:  " Contact@Relief.PK ",
		AcceptedKinds: []string{"clothes", "ration", "clothes"},
	}

	t.Run("normalizes fields", func(t *testing.T) {
		row, err := buildNGO(uuid.Nil, valid)
		require.NoError(t, err)
		require.Equal(t, "Lahore Relief", row.Name)
		require.Equal(t, "contact@relief.pk", row.ContactEmail)
		require.Equal(t, []string{"clothes", "ration"}, []string(row.AcceptedKinds))
		require.False(t, row.Verified)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		input := valid
		input.Name = "   "
		_, err := buildNGO(uuid.Nil, input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		input := valid
		input.AcceptedKinds = []string{"clothes", "cars"}
		_, err := buildNGO(uuid.Nil, input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects half coordinates", func(t *testing.T) {
		input := valid
		lat := 31.52
		input.Latitude = &lat
		_, err := buildNGO(uuid.Nil, input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestApplyUpdate(t *testing.T) {
	base := func() *models.NGO {
		return &models.NGO{
			Name:          "Lahore Relief",
			Description:   "Collects winter clothing for shelters.",
			ContactEmail:  "contact@relief.pk",
			AcceptedKinds: []string{"clothes"},
		}
	}

	t.Run("updates provided fields only", func(t *testing.T) {
		row := base()
		name := "Relief Works"
		require.NoError(t, applyUpdate(row, UpdateInput{Name: &name, AcceptedKinds: []string{"books", "ration"}}))
		require.Equal(t, "Relief Works", row.Name)
		require.Equal(t, "contact@relief.pk", row.ContactEmail)
		require.Equal(t, []string{"books", "ration"}, []string(row.AcceptedKinds))
	})

	t.Run("clears coordinates", func(t *testing.T) {
		row := base()
		lat, lng := 31.52, 74.35
		row.Latitude = &lat
		row.Longitude = &lng
		require.NoError(t, applyUpdate(row, UpdateInput{ClearCoords: true}))
		require.Nil(t, row.Latitude)
		require.Nil(t, row.Longitude)
	})

	t.Run("rejects out of range coordinates", func(t *testing.T) {
		row := base()
		lat, lng := 95.0, 74.35
		err := applyUpdate(row, UpdateInput{Latitude: &lat, Longitude: &lng})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestNormalizeKindsEmpty(t *testing.T) {
	kinds, err := normalizeKinds(nil)
	require.NoError(t, err)
	require.NotNil(t, kinds)
	require.Empty(t, kinds)
}
