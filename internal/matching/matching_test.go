package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAvailable(t *testing.T) {
	today := date(2025, 6, 1)

	tests := []struct {
		name         string
		lastDonation *time.Time
		want         bool
	}{
		{
			name:         "no donations yet",
			lastDonation: nil,
			want:         true,
		},
		{
			name:         "donated yesterday",
			lastDonation: ptr(date(2025, 5, 31)),
			want:         false,
		},
		{
			name:         "donated 89 days ago",
			lastDonation: ptr(today.AddDate(0, 0, -89)),
			want:         false,
		},
		{
			name:         "donated exactly 90 days ago",
			lastDonation: ptr(today.AddDate(0, 0, -90)),
			want:         true,
		},
		{
			name:         "donated 91 days ago",
			lastDonation: ptr(today.AddDate(0, 0, -91)),
			want:         true,
		},
		{
			name:         "donation date in the future",
			lastDonation: ptr(date(2025, 6, 10)),
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Available(tt.lastDonation, today))
		})
	}
}

func TestRefreshAvailability(t *testing.T) {
	today := date(2025, 6, 1)

	profile := &models.DonorProfile{
		LastDonationDate: ptr(today.AddDate(0, 0, -91)),
		IsAvailable:      false, // устаревшее сохранённое значение
	}
	RefreshAvailability(profile, today)
	assert.True(t, profile.IsAvailable)

	profile.LastDonationDate = ptr(today.AddDate(0, 0, -10))
	RefreshAvailability(profile, today)
	assert.False(t, profile.IsAvailable)

	// nil-анкета не должна приводить к панике
	RefreshAvailability(nil, today)
}

func TestFulfilled(t *testing.T) {
	assert.False(t, Fulfilled(0, 1))
	assert.False(t, Fulfilled(1, 2))
	assert.True(t, Fulfilled(2, 2))
	assert.True(t, Fulfilled(3, 2))
}

func TestValidBloodGroup(t *testing.T) {
	for _, g := range BloodGroups {
		assert.True(t, ValidBloodGroup(g), g)
	}
	assert.False(t, ValidBloodGroup("C+"))
	assert.False(t, ValidBloodGroup(""))
	assert.False(t, ValidBloodGroup("o+"))
}

func TestCheckAccept(t *testing.T) {
	now := date(2025, 6, 1)

	baseRequest := func() *models.BloodRequest {
		return &models.BloodRequest{
			ID:           1,
			RecipientUID: "recipient-uid",
			BloodGroup:   "A+",
			BagsNeeded:   2,
			DonationDate: date(2025, 6, 10),
		}
	}
	baseProfile := func() *models.DonorProfile {
		return &models.DonorProfile{
			UserUID:     "donor-uid",
			BloodGroup:  "A+",
			Age:         30,
			IsAvailable: true,
		}
	}

	tests := []struct {
		name         string
		request      func() *models.BloodRequest
		profile      func() *models.DonorProfile
		donorCount   int
		alreadyDonor bool
		donorUID     string
		wantErr      error
	}{
		{
			name:     "all preconditions satisfied",
			request:  baseRequest,
			profile:  baseProfile,
			donorUID: "donor-uid",
			wantErr:  nil,
		},
		{
			name: "donation date is today, still acceptable",
			request: func() *models.BloodRequest {
				r := baseRequest()
				r.DonationDate = now
				return r
			},
			profile:  baseProfile,
			donorUID: "donor-uid",
			wantErr:  nil,
		},
		{
			name: "expired request",
			request: func() *models.BloodRequest {
				r := baseRequest()
				r.DonationDate = date(2025, 5, 31)
				return r
			},
			profile:  baseProfile,
			donorUID: "donor-uid",
			wantErr:  ErrExpiredRequest,
		},
		{
			name:     "missing profile",
			request:  baseRequest,
			profile:  func() *models.DonorProfile { return nil },
			donorUID: "donor-uid",
			wantErr:  ErrMissingProfile,
		},
		{
			name:    "blood group mismatch",
			request: baseRequest,
			profile: func() *models.DonorProfile {
				p := baseProfile()
				p.BloodGroup = "B-"
				return p
			},
			donorUID: "donor-uid",
			wantErr:  ErrBloodGroupMismatch,
		},
		{
			name:    "donor unavailable",
			request: baseRequest,
			profile: func() *models.DonorProfile {
				p := baseProfile()
				p.IsAvailable = false
				return p
			},
			donorUID: "donor-uid",
			wantErr:  ErrDonorUnavailable,
		},
		{
			name:       "request fully covered",
			request:    baseRequest,
			profile:    baseProfile,
			donorCount: 2,
			donorUID:   "donor-uid",
			wantErr:    ErrRequestFullyCovered,
		},
		{
			name:         "already accepted",
			request:      baseRequest,
			profile:      baseProfile,
			donorCount:   1,
			alreadyDonor: true,
			donorUID:     "donor-uid",
			wantErr:      ErrAlreadyAccepted,
		},
		{
			name:    "self donation forbidden regardless of matching group",
			request: baseRequest,
			profile: func() *models.DonorProfile {
				p := baseProfile()
				p.UserUID = "recipient-uid"
				return p
			},
			donorUID: "recipient-uid",
			wantErr:  ErrSelfDonation,
		},
		{
			name: "expiry wins over missing profile",
			request: func() *models.BloodRequest {
				r := baseRequest()
				r.DonationDate = date(2025, 5, 1)
				return r
			},
			profile:  func() *models.DonorProfile { return nil },
			donorUID: "donor-uid",
			wantErr:  ErrExpiredRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAccept(tt.request(), tt.profile(), tt.donorCount, tt.alreadyDonor, tt.donorUID, now)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckWithdraw(t *testing.T) {
	donationDate := date(2025, 6, 10)

	tests := []struct {
		name    string
		isDonor bool
		now     time.Time
		wantErr error
	}{
		{
			name:    "withdraw before donation date",
			isDonor: true,
			now:     date(2025, 6, 9),
			wantErr: nil,
		},
		{
			name:    "not a donor",
			isDonor: false,
			now:     date(2025, 6, 1),
			wantErr: ErrNotADonor,
		},
		{
			name:    "withdraw on the donation date",
			isDonor: true,
			now:     donationDate,
			wantErr: ErrWithdrawalClosed,
		},
		{
			name:    "withdraw after the donation date",
			isDonor: true,
			now:     date(2025, 6, 11),
			wantErr: ErrWithdrawalClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckWithdraw(tt.isDonor, donationDate, tt.now)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }
