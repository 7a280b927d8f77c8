package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareQuote(t *testing.T) {
	start := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)

	t.Run("amount is duration times hourly rate", func(t *testing.T) {
		quote, err := PrepareQuote(start, start.Add(4*time.Hour), 80)
		require.NoError(t, err)
		assert.Equal(t, 4.0, quote.Hours)
		assert.Equal(t, 320.0, quote.Amount)
	})

	t.Run("fractional hours are priced proportionally", func(t *testing.T) {
		quote, err := PrepareQuote(start, start.Add(90*time.Minute), 80)
		require.NoError(t, err)
		assert.Equal(t, 1.5, quote.Hours)
		assert.Equal(t, 120.0, quote.Amount)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := PrepareQuote(start, start.Add(-time.Hour), 80)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "time window", verr.Field)
	})

	t.Run("end equal to start is rejected", func(t *testing.T) {
		_, err := PrepareQuote(start, start, 80)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("shorter than one hour is rejected", func(t *testing.T) {
		_, err := PrepareQuote(start, start.Add(30*time.Minute), 80)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "duration", verr.Field)
	})

	t.Run("longer than a day is rejected", func(t *testing.T) {
		_, err := PrepareQuote(start, start.Add(25*time.Hour), 80)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "duration", verr.Field)
	})

	t.Run("exactly one hour and exactly one day are accepted", func(t *testing.T) {
		quote, err := PrepareQuote(start, start.Add(time.Hour), 75)
		require.NoError(t, err)
		assert.Equal(t, 75.0, quote.Amount)

		quote, err = PrepareQuote(start, start.Add(24*time.Hour), 75)
		require.NoError(t, err)
		assert.Equal(t, 1800.0, quote.Amount)
	})

	t.Run("zero rate is rejected", func(t *testing.T) {
		_, err := PrepareQuote(start, start.Add(2*time.Hour), 0)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "hourlyRate", verr.Field)
	})

	t.Run("missing window is rejected", func(t *testing.T) {
		_, err := PrepareQuote(time.Time{}, start, 80)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestValidateScootyInput(t *testing.T) {
	t.Run("valid registration passes", func(t *testing.T) {
		err := ValidateScootyInput("Honda Activa 6G", "KA01AB1234", "MG Road", "petrol", 80)
		assert.NoError(t, err)
	})

	t.Run("each empty field is rejected", func(t *testing.T) {
		cases := []struct {
			field                        string
			model, plate, location, fuel string
			rate                         float64
		}{
			{"model", "", "KA01AB1234", "MG Road", "petrol", 80},
			{"plateNumber", "Honda Activa 6G", "", "MG Road", "petrol", 80},
			{"location", "Honda Activa 6G", "KA01AB1234", "", "petrol", 80},
			{"fuelType", "Honda Activa 6G", "KA01AB1234", "MG Road", "", 80},
			{"hourlyRate", "Honda Activa 6G", "KA01AB1234", "MG Road", "petrol", 0},
			{"hourlyRate", "Honda Activa 6G", "KA01AB1234", "MG Road", "petrol", -5},
		}

		for _, tc := range cases {
			err := ValidateScootyInput(tc.model, tc.plate, tc.location, tc.fuel, tc.rate)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		}
	})
}
