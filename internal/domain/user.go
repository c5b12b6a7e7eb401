package domain

import "strings"

// Language is one of the interface languages a learner can pick.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageRussian Language = "Russian"
	LanguageKazakh  Language = "Kazakh"
	LanguageUzbek   Language = "Uzbek"
	LanguageKyrgyz  Language = "Kyrgyz"

	DefaultLanguage = LanguageEnglish
)

// SupportedLanguages lists the languages in the order they are offered.
var SupportedLanguages = []Language{
	LanguageRussian,
	LanguageKazakh,
	LanguageEnglish,
	LanguageUzbek,
	LanguageKyrgyz,
}

// ParseLanguage matches text against the supported language names exactly.
func ParseLanguage(text string) (Language, bool) {
	text = strings.TrimSpace(text)
	for _, lang := range SupportedLanguages {
		if string(lang) == text {
			return lang, true
		}
	}
	return "", false
}

// UnknownLevel is recorded when an assessment carries no level token.
const UnknownLevel = "Unknown"

// UserRecord is the durable learner profile.
type UserRecord struct {
	UserID       int64
	Language     Language
	EnglishLevel string
	Name         string
	Age          string
	Score        int
}

// LanguageOrDefault returns the stored language, falling back to English.
func (u *UserRecord) LanguageOrDefault() Language {
	if u == nil || u.Language == "" {
		return DefaultLanguage
	}
	return u.Language
}

// LevelOrUnknown returns the stored proficiency level or UnknownLevel.
func (u *UserRecord) LevelOrUnknown() string {
	if u == nil || u.EnglishLevel == "" {
		return UnknownLevel
	}
	return u.EnglishLevel
}

// HasProfile reports whether onboarding recorded both name and age.
func (u *UserRecord) HasProfile() bool {
	return u != nil && u.Name != "" && u.Age != ""
}

// UserUpdate is a partial update. Empty strings and a nil Score leave the
// stored value untouched.
type UserUpdate struct {
	Language     Language
	EnglishLevel string
	Name         string
	Age          string
	Score        *int
}

// Merge applies the non-empty fields of upd onto a copy of u. A nil receiver
// yields a fresh record for userID.
func (u *UserRecord) Merge(userID int64, upd UserUpdate) *UserRecord {
	merged := &UserRecord{UserID: userID}
	if u != nil {
		*merged = *u
		merged.UserID = userID
	}
	if upd.Language != "" {
		merged.Language = upd.Language
	}
	if upd.EnglishLevel != "" {
		merged.EnglishLevel = upd.EnglishLevel
	}
	if upd.Name != "" {
		merged.Name = upd.Name
	}
	if upd.Age != "" {
		merged.Age = upd.Age
	}
	if upd.Score != nil {
		merged.Score = *upd.Score
	}
	return merged
}
