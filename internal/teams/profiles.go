package teams

import "github.com/solvaholic/teamsmine/internal/record"

// UnknownSender is the display name used when nothing better is known.
const UnknownSender = "Unknown"

// ProfileIndex maps an identity (MRI) to its profile.
type ProfileIndex map[string]UserProfile

// Add indexes one profile record. The identity comes from the "mri" field,
// or the record key when that is absent. A later record for the same
// identity replaces the earlier one.
func (p ProfileIndex) Add(rec record.Record) {
	if rec.Value == nil {
		return
	}
	mri := rec.Value.GetString("mri", "")
	if mri == "" {
		mri = rec.Key
	}
	if mri == "" {
		return
	}

	profile := UserProfile{
		ID:          mri,
		DisplayName: rec.Value.GetString("displayName", UnknownSender),
	}
	if rec.Value.Has("mail") {
		email := rec.Value.GetString("mail", "")
		profile.Email = &email
	}
	p[mri] = profile
}

// Lookup returns the profile for an identity.
func (p ProfileIndex) Lookup(mri string) (UserProfile, bool) {
	profile, ok := p[mri]
	return profile, ok
}
