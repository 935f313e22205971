package reminder

import (
	"log"

	"github.com/paynudge/paynudge/app/repository"
)

// ResolveSenderProfile fetch-or-creates the user's profile row and normalizes
// it into a SenderProfile. The user record supplies the full-name fallback
// and, when no reply-to is configured, the login email.
func ResolveSenderProfile(profiles repository.ProfileRepository, users repository.UserRepository, userID uint) (SenderProfile, error) {
	profile, err := profiles.GetOrCreateByUserID(userID)
	if err != nil {
		return SenderProfile{}, err
	}

	sender := SenderProfile{
		SenderName:     deref(profile.SenderName),
		ReplyToEmail:   deref(profile.ReplyToEmail),
		EmailSignature: deref(profile.EmailSignature),
	}

	user, err := users.GetByID(userID)
	if err != nil {
		// Sender identity degrades gracefully without the user record.
		log.Printf("Sender profile: user lookup failed for %d: %v", userID, err)
		return sender, nil
	}
	sender.FullName = user.FullName
	if sender.ReplyToEmail == "" {
		sender.ReplyToEmail = user.Email
	}
	return sender, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
