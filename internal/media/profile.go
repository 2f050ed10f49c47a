package media

import "github.com/five82/chirp/internal/api"

// ProfileSettings builds the settings update that points the profile at
// freshly processed profile pictures and banners. The last ready asset of
// each kind wins. ok is false when no asset affects the profile.
func ProfileSettings(assets []Asset) (settings api.SettingsRequest, ok bool) {
	for _, a := range assets {
		if a.State != StateReady {
			continue
		}
		id := a.ID
		switch a.Kind {
		case KindProfilePicture:
			settings.ProfilePicturePhotoID = &id
		case KindBanner:
			settings.BannerPhotoID = &id
		}
	}
	return settings, settings.ProfilePicturePhotoID != nil || settings.BannerPhotoID != nil
}
