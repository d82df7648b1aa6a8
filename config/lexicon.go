package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Language is a detected message language tag.
type Language string

const (
	LangEnglish   Language = "en"
	LangHindi     Language = "hi"
	LangBengali   Language = "bn"
	LangPunjabi   Language = "pa"
	LangGujarati  Language = "gu"
	LangOdia      Language = "or"
	LangTamil     Language = "ta"
	LangTelugu    Language = "te"
	LangKannada   Language = "kn"
	LangMalayalam Language = "ml"
	LangUrdu      Language = "ur"
)

// Category is an issue category assigned by the intent classifier.
type Category string

const (
	CategoryDeposit           Category = "deposit"
	CategoryWithdrawal        Category = "withdrawal"
	CategoryAccount           Category = "account"
	CategoryBonus             Category = "bonus"
	CategoryTechnical         Category = "technical"
	CategoryComplaint         Category = "complaint"
	CategoryResponsibleGaming Category = "responsible_gaming"
	CategoryGeneral           Category = "general"
)

// CategoryKeywords holds the per-language keyword lists for one category.
// Matching is raw case-insensitive substring containment.
type CategoryKeywords struct {
	Category Category              `yaml:"category"`
	Keywords map[Language][]string `yaml:"keywords"`
}

// SubIntent is a narrower keyword pass within a category, evaluated by the
// response generator after classification.
type SubIntent struct {
	Name     string                `yaml:"name"`
	Keywords map[Language][]string `yaml:"keywords"`
}

// EscalationLexicon holds the keyword lists consulted by the escalation
// policy.
type EscalationLexicon struct {
	HumanRequest      map[Language][]string `yaml:"human_request"`
	LegalThreat       map[Language][]string `yaml:"legal_threat"`
	PaymentDispute    map[Language][]string `yaml:"payment_dispute"`
	AccountSuspension map[Language][]string `yaml:"account_suspension"`
	SystemFailure     map[Language][]string `yaml:"system_failure"`
}

// Lexicon is the immutable keyword configuration for the whole pipeline. It
// is built once at startup and injected; nothing mutates it afterwards.
type Lexicon struct {
	DefaultLanguage Language                `yaml:"default_language"`
	Categories      []CategoryKeywords      `yaml:"categories"` // evaluation order is significant
	SubIntents      map[Category][]SubIntent `yaml:"sub_intents"`
	Escalation      EscalationLexicon       `yaml:"escalation"`
	Angry           map[Language][]string   `yaml:"angry"`
	Romanized       map[Language][]string   `yaml:"romanized"` // word-boundary matched, two distinct words required
}

// Terms returns the keyword list for lang, falling back to the default
// language's list when lang has none configured.
func (l *Lexicon) Terms(m map[Language][]string, lang Language) []string {
	if terms, ok := m[lang]; ok && len(terms) > 0 {
		return terms
	}
	return m[l.DefaultLanguage]
}

// LoadLexicon returns the built-in lexicon, overlaid with the YAML file at
// path when one is given. YAML keys replace the corresponding built-in
// entries wholesale.
func LoadLexicon(path string) (*Lexicon, error) {
	lex := DefaultLexicon()
	if path == "" {
		return lex, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}
	if err := yaml.Unmarshal(data, lex); err != nil {
		return nil, fmt.Errorf("parse lexicon file: %w", err)
	}

	if lex.DefaultLanguage == "" {
		return nil, fmt.Errorf("lexicon: default_language must be set")
	}
	if len(lex.Categories) == 0 {
		return nil, fmt.Errorf("lexicon: categories must not be empty")
	}
	return lex, nil
}

// DefaultLexicon builds the built-in keyword tables. Category order below is
// the classifier evaluation order: deposit before withdrawal before account
// before bonus before technical before complaint before responsible gaming.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		DefaultLanguage: LangEnglish,
		Categories: []CategoryKeywords{
			{
				Category: CategoryDeposit,
				Keywords: map[Language][]string{
					LangEnglish: {"deposit", "add money", "add cash", "added money", "recharge", "top up", "topup", "paid but", "payment not", "money not added", "utr"},
					LangHindi:   {"जमा", "डिपॉजिट", "पैसे डाले", "पैसा डाला", "रिचार्ज", "पैसा नहीं आया"},
					LangTelugu:  {"డిపాజిట్", "డబ్బు వేశాను", "రీఛార్జ్"},
					LangBengali: {"জমা", "ডিপোজিট", "টাকা দিয়েছি", "রিচার্জ"},
				},
			},
			{
				Category: CategoryWithdrawal,
				Keywords: map[Language][]string{
					LangEnglish: {"withdraw", "withdrawal", "payout", "cash out", "cashout", "money out", "not received my money"},
					LangHindi:   {"निकासी", "विड्रॉल", "पैसे निकाल", "पैसा निकाल"},
					LangTelugu:  {"విత్‌డ్రా", "డబ్బు తీసుకో"},
					LangBengali: {"টাকা তুলতে", "উইথড্র"},
				},
			},
			{
				Category: CategoryAccount,
				Keywords: map[Language][]string{
					LangEnglish: {"login", "log in", "sign in", "password", "otp", "account", "profile", "kyc", "verify", "verification"},
					LangHindi:   {"लॉगिन", "पासवर्ड", "खाता", "ओटीपी", "केवाईसी"},
					LangTelugu:  {"లాగిన్", "పాస్‌వర్డ్", "ఖాతా"},
					LangBengali: {"লগইন", "পাসওয়ার্ড", "অ্যাকাউন্ট"},
				},
			},
			{
				Category: CategoryBonus,
				Keywords: map[Language][]string{
					LangEnglish: {"bonus", "promo", "promotion", "cashback", "reward", "gift code", "coupon", "free spin"},
					LangHindi:   {"बोनस", "इनाम", "कैशबैक", "कूपन"},
					LangTelugu:  {"బోనస్", "బహుమతి"},
					LangBengali: {"বোনাস", "পুরস্কার"},
				},
			},
			{
				Category: CategoryTechnical,
				Keywords: map[Language][]string{
					LangEnglish: {"not working", "error", "bug", "stuck", "loading", "hang", "freeze", "slow", "lag", "crash", "cannot open", "can't open"},
					LangHindi:   {"काम नहीं कर", "एरर", "अटक", "नहीं खुल"},
					LangTelugu:  {"పని చేయడం లేదు", "ఎర్రర్"},
					LangBengali: {"কাজ করছে না", "সমস্যা হচ্ছে"},
				},
			},
			{
				Category: CategoryComplaint,
				Keywords: map[Language][]string{
					LangEnglish: {"complaint", "complain", "cheated", "unfair", "worst", "fake", "report you", "very bad service"},
					LangHindi:   {"शिकायत", "धोखा", "बेकार"},
					LangTelugu:  {"ఫిర్యాదు", "మోసం"},
					LangBengali: {"অভিযোগ", "প্রতারণা"},
				},
			},
			{
				Category: CategoryResponsibleGaming,
				Keywords: map[Language][]string{
					LangEnglish: {"addict", "addiction", "gambling problem", "self exclude", "self-exclusion", "limit my play", "stop playing", "close my account forever"},
					LangHindi:   {"लत", "जुए की आदत", "खेलना बंद"},
				},
			},
		},
		SubIntents: map[Category][]SubIntent{
			CategoryDeposit: {
				{
					Name: "failed",
					Keywords: map[Language][]string{
						LangEnglish: {"fail", "failed", "not credited", "not added", "not received", "stuck", "pending", "deducted", "debited but"},
						LangHindi:   {"फेल", "नहीं आया", "अटक", "कट गया"},
						LangTelugu:  {"రాలేదు", "ఫెయిల్"},
						LangBengali: {"ব্যর্থ", "আসেনি"},
					},
				},
				{
					Name: "how_to",
					Keywords: map[Language][]string{
						LangEnglish: {"how to", "how do", "how can"},
						LangHindi:   {"कैसे"},
						LangTelugu:  {"ఎలా"},
						LangBengali: {"কিভাবে"},
					},
				},
			},
			CategoryWithdrawal: {
				{
					Name: "pending",
					Keywords: map[Language][]string{
						LangEnglish: {"pending", "not received", "still waiting", "delay", "stuck"},
						LangHindi:   {"पेंडिंग", "नहीं मिला", "देरी"},
						LangTelugu:  {"పెండింగ్", "రాలేదు"},
						LangBengali: {"পেন্ডিং", "পাইনি"},
					},
				},
				{
					Name: "how_to",
					Keywords: map[Language][]string{
						LangEnglish: {"how to", "how do", "how can"},
						LangHindi:   {"कैसे"},
						LangTelugu:  {"ఎలా"},
						LangBengali: {"কিভাবে"},
					},
				},
			},
			CategoryAccount: {
				{
					Name: "password_reset",
					Keywords: map[Language][]string{
						LangEnglish: {"forgot", "reset", "change password"},
						LangHindi:   {"भूल गया", "रीसेट"},
					},
				},
			},
			CategoryBonus: {
				{
					Name: "not_credited",
					Keywords: map[Language][]string{
						LangEnglish: {"not credited", "not received", "didn't get", "did not get"},
						LangHindi:   {"नहीं मिला"},
					},
				},
			},
		},
		Escalation: EscalationLexicon{
			HumanRequest: map[Language][]string{
				LangEnglish: {"human", "real person", "live agent", "live support", "representative", "talk to someone", "customer care number", "speak to manager"},
				LangHindi:   {"इंसान से बात", "एजेंट से बात", "असली व्यक्ति", "कस्टमर केयर नंबर"},
				LangTelugu:  {"మనిషితో మాట్లాడా", "ఏజెంట్"},
				LangBengali: {"মানুষের সাথে কথা", "এজেন্ট"},
			},
			LegalThreat: map[Language][]string{
				LangEnglish: {"lawyer", "lawsuit", "court", "legal action", "police", "consumer forum", "cyber cell"},
				LangHindi:   {"वकील", "कोर्ट", "कानूनी", "पुलिस"},
				LangTelugu:  {"లాయర్", "కోర్టు", "పోలీస్"},
				LangBengali: {"উকিল", "আদালত", "পুলিশ"},
			},
			PaymentDispute: map[Language][]string{
				LangEnglish: {"chargeback", "fraud", "scam", "scammed", "cheated me", "stole my money", "stolen"},
				LangHindi:   {"धोखाधड़ी", "फ्रॉड", "पैसे चुरा"},
				LangTelugu:  {"మోసం చేశారు", "ఫ్రాడ్"},
				LangBengali: {"জালিয়াতি", "টাকা চুরি"},
			},
			AccountSuspension: map[Language][]string{
				LangEnglish: {"banned", "ban", "suspended", "terminate", "terminated", "blocked my account", "account blocked"},
				LangHindi:   {"बैन", "ब्लॉक", "सस्पेंड"},
				LangTelugu:  {"బ్యాన్", "బ్లాక్"},
				LangBengali: {"ব্যান", "ব্লক"},
			},
			SystemFailure: map[Language][]string{
				LangEnglish: {"server", "database", "crash", "crashed", "down", "outage"},
				LangHindi:   {"सर्वर", "क्रैश", "डाउन"},
				LangTelugu:  {"సర్వర్", "క్రాష్"},
				LangBengali: {"সার্ভার", "ক্র্যাশ"},
			},
		},
		Angry: map[Language][]string{
			LangEnglish: {"angry", "frustrated", "pathetic", "useless", "disgusting", "fed up", "worst app", "waste of time"},
			LangHindi:   {"गुस्सा", "बकवास", "घटिया"},
			LangTelugu:  {"కోపం", "చెత్త"},
			LangBengali: {"রাগ", "বাজে"},
		},
		Romanized: map[Language][]string{
			LangHindi:  {"hai", "nahi", "nahin", "kya", "mera", "mere", "paisa", "paise", "kyu", "kyun", "karo", "jaldi", "bhai", "abhi", "karna", "hua", "gaya", "raha", "wala", "kab"},
			LangTelugu: {"undi", "ledu", "enti", "naa", "dabbu", "cheyandi", "ayyindi", "kavali", "eppudu", "enduku", "chala", "inka"},
		},
	}
}
