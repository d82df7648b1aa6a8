package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryTemplates holds the localized responses for one issue category.
type CategoryTemplates struct {
	General    map[Language]string            `yaml:"general"`
	SubIntents map[string]map[Language]string `yaml:"sub_intents"`
}

// Templates is the localized response table. Like the Lexicon it is built
// once at startup and injected. Reconciliation formats use {order}, {amount},
// {type}, {status} and {date} placeholders.
type Templates struct {
	DefaultLanguage  Language                        `yaml:"default_language"`
	Greeting         map[Language]string             `yaml:"greeting"`
	Escalation       map[Language]string             `yaml:"escalation"`
	Apology          map[Language]string             `yaml:"apology"`
	OrderNotFound    map[Language]string             `yaml:"order_not_found"`
	DepositStatus    map[Language]string             `yaml:"deposit_status"`
	WithdrawalStatus map[Language]string             `yaml:"withdrawal_status"`
	Categories       map[Category]CategoryTemplates  `yaml:"categories"`
}

// Text returns the localized string from m, falling back to the default
// language.
func (t *Templates) Text(m map[Language]string, lang Language) string {
	if s, ok := m[lang]; ok && s != "" {
		return s
	}
	return m[t.DefaultLanguage]
}

// CategoryText selects a category response. Resolution order: sub-intent
// template in the detected language, category-general in the detected
// language, sub-intent in the default language, category-general in the
// default language, and finally the default-language general template when
// the category itself is unconfigured.
func (t *Templates) CategoryText(cat Category, sub string, lang Language) string {
	if ct, ok := t.Categories[cat]; ok {
		if sub != "" {
			if s := ct.SubIntents[sub][lang]; s != "" {
				return s
			}
		}
		if s := ct.General[lang]; s != "" {
			return s
		}
		if sub != "" {
			if s := ct.SubIntents[sub][t.DefaultLanguage]; s != "" {
				return s
			}
		}
		if s := ct.General[t.DefaultLanguage]; s != "" {
			return s
		}
	}
	return t.Categories[CategoryGeneral].General[t.DefaultLanguage]
}

// LoadTemplates returns the built-in templates, overlaid with the YAML file
// at path when one is given. The text itself normally comes from the
// translation team's file; the built-ins keep the bot functional without it.
func LoadTemplates(path string) (*Templates, error) {
	tmpl := DefaultTemplates()
	if path == "" {
		return tmpl, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}
	if err := yaml.Unmarshal(data, tmpl); err != nil {
		return nil, fmt.Errorf("parse templates file: %w", err)
	}

	if tmpl.DefaultLanguage == "" {
		return nil, fmt.Errorf("templates: default_language must be set")
	}
	if len(tmpl.Greeting) == 0 {
		return nil, fmt.Errorf("templates: greeting must not be empty")
	}
	return tmpl, nil
}

func DefaultTemplates() *Templates {
	return &Templates{
		DefaultLanguage: LangEnglish,
		Greeting: map[Language]string{
			LangEnglish: "Welcome to player support! Tell me what happened — a deposit, a withdrawal, your account, or anything else — and I will do my best to sort it out.",
			LangHindi:   "प्लेयर सपोर्ट में आपका स्वागत है! बताइए क्या हुआ — जमा, निकासी, खाता या कुछ और — मैं मदद करने की पूरी कोशिश करूँगा।",
			LangTelugu:  "ప్లేయర్ సపోర్ట్‌కు స్వాగతం! ఏమి జరిగిందో చెప్పండి — డిపాజిట్, విత్‌డ్రా, ఖాతా లేదా మరేదైనా — నేను సహాయం చేస్తాను.",
			LangBengali: "প্লেয়ার সাপোর্টে স্বাগতম! কী হয়েছে বলুন — জমা, উইথড্র, অ্যাকাউন্ট বা অন্য কিছু — আমি সাহায্য করব।",
		},
		Escalation: map[Language]string{
			LangEnglish: "I am connecting you to one of our support specialists now. Please stay in this chat — a team member will reply here shortly.",
			LangHindi:   "मैं आपको अभी हमारे सपोर्ट विशेषज्ञ से जोड़ रहा हूँ। कृपया इसी चैट में रहें — टीम का सदस्य जल्द ही जवाब देगा।",
			LangTelugu:  "మిమ్మల్ని ఇప్పుడు మా సపోర్ట్ నిపుణుడికి కనెక్ట్ చేస్తున్నాను. ఈ చాట్‌లోనే ఉండండి — త్వరలో సమాధానం వస్తుంది.",
			LangBengali: "আপনাকে এখন আমাদের সাপোর্ট বিশেষজ্ঞের সাথে যুক্ত করছি। এই চ্যাটে থাকুন — শীঘ্রই উত্তর পাবেন।",
		},
		Apology: map[Language]string{
			LangEnglish: "I am really sorry for the trouble you are facing.",
			LangHindi:   "आपको हुई परेशानी के लिए मुझे सचमुच खेद है।",
			LangTelugu:  "మీకు కలిగిన ఇబ్బందికి నిజంగా క్షమించండి.",
			LangBengali: "আপনার অসুবিধার জন্য আমি আন্তরিকভাবে দুঃখিত।",
		},
		OrderNotFound: map[Language]string{
			LangEnglish: "I could not find order {order} in our records yet. Recent transactions can take a little while to appear — if it does not show up soon, our team will look into it.",
			LangHindi:   "मुझे हमारे रिकॉर्ड में ऑर्डर {order} अभी नहीं मिला। हाल के लेन-देन दिखने में थोड़ा समय लग सकता है — अगर जल्द न दिखे तो हमारी टीम जाँच करेगी।",
			LangTelugu:  "ఆర్డర్ {order} మా రికార్డుల్లో ఇంకా కనబడలేదు. ఇటీవలి లావాదేవీలు కనిపించడానికి కొంత సమయం పట్టవచ్చు.",
			LangBengali: "অর্ডার {order} এখনও আমাদের রেকর্ডে পাওয়া যায়নি। সাম্প্রতিক লেনদেন দেখাতে কিছুটা সময় লাগতে পারে।",
		},
		DepositStatus: map[Language]string{
			LangEnglish: "Good news — I found your deposit {order}. Amount: {amount}, channel: {type}, status: {status}, recorded on {date}.",
			LangHindi:   "अच्छी खबर — आपका जमा ऑर्डर {order} मिल गया। राशि: {amount}, चैनल: {type}, स्थिति: {status}, दिनांक {date}।",
			LangTelugu:  "శుభవార్త — మీ డిపాజిట్ {order} దొరికింది. మొత్తం: {amount}, ఛానల్: {type}, స్థితి: {status}, తేదీ {date}.",
			LangBengali: "সুখবর — আপনার জমা {order} পাওয়া গেছে। পরিমাণ: {amount}, চ্যানেল: {type}, অবস্থা: {status}, তারিখ {date}।",
		},
		WithdrawalStatus: map[Language]string{
			LangEnglish: "I found your withdrawal {order}. Amount: {amount}, channel: {type}, status: {status}, recorded on {date}.",
			LangHindi:   "आपकी निकासी {order} मिल गई। राशि: {amount}, चैनल: {type}, स्थिति: {status}, दिनांक {date}।",
			LangTelugu:  "మీ విత్‌డ్రా {order} దొరికింది. మొత్తం: {amount}, ఛానల్: {type}, స్థితి: {status}, తేదీ {date}.",
			LangBengali: "আপনার উইথড্র {order} পাওয়া গেছে। পরিমাণ: {amount}, চ্যানেল: {type}, অবস্থা: {status}, তারিখ {date}।",
		},
		Categories: map[Category]CategoryTemplates{
			CategoryDeposit: {
				General: map[Language]string{
					LangEnglish: "I can help with deposits. Please share the order number of the payment (it starts with s05) and I will check it right away.",
					LangHindi:   "मैं जमा में मदद कर सकता हूँ। कृपया भुगतान का ऑर्डर नंबर भेजें (यह s05 से शुरू होता है), मैं तुरंत जाँच करूँगा।",
					LangTelugu:  "డిపాజిట్ విషయంలో సహాయం చేయగలను. చెల్లింపు ఆర్డర్ నంబర్ పంపండి (s05 తో మొదలవుతుంది).",
				},
				SubIntents: map[string]map[Language]string{
					"failed": {
						LangEnglish: "Sorry to hear your deposit did not go through. Please send me the order number (starting with s05) and I will check its status against our payment records.",
						LangHindi:   "खेद है कि आपका जमा सफल नहीं हुआ। कृपया ऑर्डर नंबर (s05 से शुरू) भेजें, मैं हमारे भुगतान रिकॉर्ड में इसकी स्थिति जाँचूँगा।",
					},
					"how_to": {
						LangEnglish: "To deposit: open the wallet, choose Add Cash, pick a payment channel and follow the steps. The money usually arrives within a few minutes.",
						LangHindi:   "जमा करने के लिए: वॉलेट खोलें, Add Cash चुनें, भुगतान चैनल चुनें और चरणों का पालन करें। पैसा आमतौर पर कुछ मिनटों में आ जाता है।",
					},
				},
			},
			CategoryWithdrawal: {
				General: map[Language]string{
					LangEnglish: "I can help with withdrawals. Share the withdrawal order number (it starts with w05) and I will look it up for you.",
					LangHindi:   "मैं निकासी में मदद कर सकता हूँ। निकासी का ऑर्डर नंबर भेजें (यह w05 से शुरू होता है), मैं जाँच करूँगा।",
				},
				SubIntents: map[string]map[Language]string{
					"pending": {
						LangEnglish: "Withdrawals are normally processed within 24 hours. If you share the order number (starting with w05) I can check exactly where yours is.",
						LangHindi:   "निकासी आमतौर पर 24 घंटे में पूरी हो जाती है। ऑर्डर नंबर (w05 से शुरू) भेजें तो मैं सटीक स्थिति बता सकता हूँ।",
					},
					"how_to": {
						LangEnglish: "To withdraw: open the wallet, choose Withdraw, enter the amount and confirm your bank details. Processing normally takes up to 24 hours.",
					},
				},
			},
			CategoryAccount: {
				General: map[Language]string{
					LangEnglish: "I can help with account and login issues. Tell me what happens when you try to sign in, or say if this is about OTP or verification.",
					LangHindi:   "मैं खाते और लॉगिन की समस्याओं में मदद कर सकता हूँ। बताइए साइन-इन करते समय क्या होता है, या यह ओटीपी/वेरिफिकेशन के बारे में है।",
				},
				SubIntents: map[string]map[Language]string{
					"password_reset": {
						LangEnglish: "You can reset your password from the login screen: tap Forgot Password and follow the OTP steps sent to your registered number.",
						LangHindi:   "लॉगिन स्क्रीन से पासवर्ड रीसेट करें: Forgot Password दबाएँ और रजिस्टर्ड नंबर पर आए ओटीपी के चरणों का पालन करें।",
					},
				},
			},
			CategoryBonus: {
				General: map[Language]string{
					LangEnglish: "Bonuses and promotions are credited automatically once their conditions are met. Tell me which offer you mean and I will explain its rules.",
					LangHindi:   "बोनस और प्रमोशन शर्तें पूरी होते ही अपने आप क्रेडिट हो जाते हैं। बताइए कौन सा ऑफ़र है, मैं उसके नियम समझाऊँगा।",
				},
				SubIntents: map[string]map[Language]string{
					"not_credited": {
						LangEnglish: "If a bonus has not been credited, it is usually because the offer conditions were not fully met yet. Tell me the offer name and I will check the requirements with you.",
					},
				},
			},
			CategoryTechnical: {
				General: map[Language]string{
					LangEnglish: "Sorry about the technical trouble. Please try closing the app fully, check your connection and reopen it. If it keeps happening, tell me your device model and what you see on screen.",
					LangHindi:   "तकनीकी परेशानी के लिए खेद है। ऐप पूरी तरह बंद करें, कनेक्शन जाँचें और दोबारा खोलें। समस्या बनी रहे तो डिवाइस मॉडल और स्क्रीन पर दिखने वाली जानकारी बताएं।",
				},
			},
			CategoryComplaint: {
				General: map[Language]string{
					LangEnglish: "I hear you, and your complaint matters to us. Please describe what happened with as much detail as you can so it reaches the right team.",
					LangHindi:   "हम आपकी बात सुन रहे हैं, आपकी शिकायत हमारे लिए महत्वपूर्ण है। कृपया जो हुआ उसे विस्तार से बताएं ताकि यह सही टीम तक पहुँचे।",
				},
			},
			CategoryResponsibleGaming: {
				General: map[Language]string{
					LangEnglish: "Thank you for telling me. You can set deposit limits or pause your account from Settings > Responsible Gaming, and I am connecting this chat to our care team as well.",
					LangHindi:   "बताने के लिए धन्यवाद। आप Settings > Responsible Gaming से जमा सीमा या खाते पर रोक लगा सकते हैं, और मैं यह चैट हमारी केयर टीम को भी भेज रहा हूँ।",
				},
			},
			CategoryGeneral: {
				General: map[Language]string{
					LangEnglish: "I can help with deposits, withdrawals, account issues, bonuses and more. Could you tell me a little more about what you need?",
					LangHindi:   "मैं जमा, निकासी, खाते की समस्याओं, बोनस और बहुत कुछ में मदद कर सकता हूँ। कृपया थोड़ा और बताइए कि आपको क्या चाहिए?",
					LangTelugu:  "డిపాజిట్లు, విత్‌డ్రాలు, ఖాతా సమస్యలు, బోనస్‌ల్లో సహాయం చేయగలను. మీకు ఏమి కావాలో కొంచెం వివరంగా చెప్పగలరా?",
					LangBengali: "আমি জমা, উইথড্র, অ্যাকাউন্ট সমস্যা, বোনাস ইত্যাদিতে সাহায্য করতে পারি। আপনার কী দরকার একটু বলবেন?",
				},
			},
		},
	}
}
