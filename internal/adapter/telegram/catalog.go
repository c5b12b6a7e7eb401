package telegram

import "lingua-bot/internal/domain"

type localized map[domain.Language]string

// messages holds MarkdownV2 templates. Asterisks are bold markers, {name}
// placeholders are filled from Message.Params and {body} from Message.Body.
var messages = map[domain.MessageKey]localized{
	domain.MsgWelcome: {
		domain.LanguageEnglish: "👋 *Welcome!* Please select your language preference:",
		domain.LanguageRussian: "👋 *Добро пожаловать!* Пожалуйста, выберите предпочитаемый язык:",
		domain.LanguageKazakh:  "👋 *Қош келдіңіз!* Тіл таңдаңыз:",
		domain.LanguageUzbek:   "👋 *Xush kelibsiz!* Iltimos, til tanlovingizni belgilang:",
		domain.LanguageKyrgyz:  "👋 *Кош келиңиз!* Сураныч, өз тилиңизди тандаңыз:",
	},
	domain.MsgInvalidLanguage: {
		domain.LanguageEnglish: "Invalid selection. Please choose one of the provided languages.",
	},
	domain.MsgAlreadySetUp: {
		domain.LanguageEnglish: "✅ *You have already completed the setup!* No need to restart. You can continue learning with /lesson.",
		domain.LanguageRussian: "✅ *Вы уже завершили настройку!* Вы можете продолжить обучение: /lesson",
		domain.LanguageKazakh:  "✅ *Сіз орнатуды аяқтадыңыз!* Оқуды жалғастыра аласыз: /lesson",
		domain.LanguageUzbek:   "✅ *Siz allaqachon sozlamalarni tugatgansiz!* Davom etishingiz mumkin: /lesson",
		domain.LanguageKyrgyz:  "✅ *Орнотуу бүткөн!* Окууну уланта берсеңиз болот: /lesson",
	},
	domain.MsgSendParagraph: {
		domain.LanguageEnglish: "📜 *Now, please send a paragraph in English* so I can evaluate your proficiency. " +
			"Your paragraph can be on any topic of your choice: introduce yourself, describe your hobbies, " +
			"or share a recent experience. Aim for at least 4-5 sentences to demonstrate your grammar, vocabulary, and fluency.",
		domain.LanguageRussian: "📜 *Теперь отправьте абзац на английском языке*, чтобы я мог оценить ваш уровень владения языком. " +
			"Вы можете выбрать любую тему: представьтесь, расскажите о своих увлечениях или поделитесь недавним опытом. " +
			"Постарайтесь написать минимум 4-5 предложений.",
		domain.LanguageKazakh: "📜 *Енді ағылшын тілінде бір абзац жіберіңіз*, мен сіздің деңгейіңізді бағалай аламын. " +
			"Кез келген тақырыпты таңдауға болады.",
		domain.LanguageUzbek: "📜 *Iltimos, endi ingliz tilida bir parcha matn yuboring*, shunda men sizning til darajangizni baholay olaman. " +
			"Kamida 4-5 jumla yozing.",
		domain.LanguageKyrgyz: "📜 *Эми англис тилинде бир абзац жибериңиз*, ошондо мен сиздин деңгээлиңизди баалай алам. " +
			"Кеминде 4-5 сүйлөм жазып көрүңүз.",
	},
	domain.MsgAssessmentResults: {
		domain.LanguageEnglish: "📊 *Your English Assessment Result:*\n\n{body}\n\n🌍 *Estimated Proficiency Level:* *{level}*",
		domain.LanguageRussian: "📊 *Результаты оценки:*\n\n{body}\n\n🌍 *Предположительный уровень:* *{level}*",
		domain.LanguageKazakh:  "📊 *Бағалау нәтижелері:*\n\n{body}\n\n🌍 *Болжамды деңгей:* *{level}*",
		domain.LanguageUzbek:   "📊 *Sizning ingliz tilini baholash natijalaringiz:*\n\n{body}\n\n🌍 *Taxminiy daraja:* *{level}*",
		domain.LanguageKyrgyz:  "📊 *Сиздин англис тили баалоо жыйынтыктары:*\n\n{body}\n\n🌍 *Болжолдуу деңгээл:* *{level}*",
	},
	domain.MsgChooseOption: {
		domain.LanguageEnglish: "Please choose an option:",
		domain.LanguageRussian: "Пожалуйста, выберите опцию:",
		domain.LanguageKazakh:  "Опцияны таңдаңыз:",
		domain.LanguageUzbek:   "Iltimos, bir variantni tanlang:",
		domain.LanguageKyrgyz:  "Сураныч, вариант тандаңыз:",
	},
	domain.MsgRetakeAssessment: {
		domain.LanguageEnglish: "🔄 *You chose to retake the test.* Please send another paragraph in English.",
		domain.LanguageRussian: "🔄 *Вы выбрали пересдать тест.* Отправьте другой абзац на английском языке.",
		domain.LanguageKazakh:  "🔄 *Сіз тестті қайта тапсыруды таңдадыңыз.* Ағылшын тілінде басқа абзац жіберіңіз.",
		domain.LanguageUzbek:   "🔄 *Siz testni qayta topshirishni tanladingiz.* Ingliz tilida yana bir parcha yuboring.",
		domain.LanguageKyrgyz:  "🔄 *Сиз тестти кайрадан берүүнү тандадыңыз.* Англис тилинде башка бир абзац жиберип көрүңүз.",
	},
	domain.MsgPersonalizedTopics: {
		domain.LanguageEnglish: "✅ *Your Personalized List of Topics:*",
		domain.LanguageRussian: "✅ *Ваш персонализированный список тем:*",
		domain.LanguageKazakh:  "✅ *Жеке тақырыптарыңыздың тізімі:*",
		domain.LanguageUzbek:   "✅ *Shaxsiy mavzular ro'yxati:*",
		domain.LanguageKyrgyz:  "✅ *Сиздин жеке темалар тизмеси:*",
	},
	domain.MsgIntroducePrompt: {
		domain.LanguageEnglish: "Please introduce yourself briefly (include your name and age).",
		domain.LanguageRussian: "Пожалуйста, кратко представьтесь (укажите имя и возраст).",
		domain.LanguageKazakh:  "Өзіңізді қысқаша таныстырыңыз (аты-жөніңізді және жасыңызды көрсетіңіз).",
		domain.LanguageUzbek:   "O'zingizni qisqacha tanishtiring (ism va yoshni kiriting).",
		domain.LanguageKyrgyz:  "Кыскача тааныштырып коюңуз (аты-жөнүңүздү жана жашыңызды).",
	},
	domain.MsgIntroductionRecorded: {
		domain.LanguageEnglish: "✅ *Your introduction has been recorded.*\n\n👤 Name: {name}\n🎂 Age: {age}",
		domain.LanguageRussian: "✅ *Ваше представление записано.*\n\n👤 Имя: {name}\n🎂 Возраст: {age}",
		domain.LanguageKazakh:  "✅ *Сіздің таныстыруыңыз тіркелді.*\n\n👤 Есім: {name}\n🎂 Жас: {age}",
		domain.LanguageUzbek:   "✅ *Tanishuv yozib olindi.*\n\n👤 Ism: {name}\n🎂 Yosh: {age}",
		domain.LanguageKyrgyz:  "✅ *Тааныштырууңуз жазылды.*\n\n👤 Аты: {name}\n🎂 Жашы: {age}",
	},
	domain.MsgIntroductionError: {
		domain.LanguageEnglish: "⚠️ *Could not extract name and age properly. Please try again.*",
		domain.LanguageRussian: "⚠️ *Не удалось определить имя и возраст.*",
		domain.LanguageKazakh:  "⚠️ *Аты-жөніңіз бен жасыңызды анықтай алмадым.*",
		domain.LanguageUzbek:   "⚠️ *Ism va yoshni aniqlay olmadim.*",
		domain.LanguageKyrgyz:  "⚠️ *Аты-жөнүн жана жашын аныктай алган жокмун.*",
	},
	domain.MsgProceedToLearning: {
		domain.LanguageEnglish: "Please proceed to the learning mode when you are ready:",
	},
	domain.MsgSetupComplete: {
		domain.LanguageEnglish: "✅ *Setup Complete!* You are now ready to begin your learning journey.\n\n" +
			"⏰ Every day at *{broadcast_time}*, you will receive a reminder.\n\n" +
			"💬 You also have a free conversation mode.\n\n" +
			"🎯 *Start your first task:*",
		domain.LanguageRussian: "✅ *Настройка завершена!* Теперь вы готовы начать обучение.\n\n" +
			"⏰ Каждый день в *{broadcast_time}* вы будете получать напоминание.\n\n" +
			"💬 У вас есть режим свободного общения.\n\n" +
			"🎯 *Начните свое первое задание:*",
	},
	domain.MsgTaskMenu: {
		domain.LanguageEnglish: "🎯 *Choose your next task:*",
		domain.LanguageRussian: "🎯 *Выберите следующее задание:*",
		domain.LanguageKazakh:  "🎯 *Келесі тапсырманы таңдаңыз:*",
		domain.LanguageUzbek:   "🎯 *Keyingi topshiriqni tanlang:*",
		domain.LanguageKyrgyz:  "🎯 *Кийинки тапшырманы тандаңыз:*",
	},
	domain.MsgRegistrationCancelled: {
		domain.LanguageEnglish: "✅ *Your registration has been canceled and all data has been deleted.*",
		domain.LanguageRussian: "✅ *Ваша регистрация отменена и все данные удалены.*",
	},
	domain.MsgCancel: {
		domain.LanguageEnglish: "❌ *Conversation canceled.* Type /start to begin again.",
		domain.LanguageRussian: "❌ *Разговор отменен.* Введите /start, чтобы начать заново.",
		domain.LanguageKazakh:  "❌ *Сөйлесу тоқтатылды.* /start жазыңыз.",
		domain.LanguageUzbek:   "❌ *Suhbat bekor qilindi.* /start ni yozing.",
		domain.LanguageKyrgyz:  "❌ *Сүйлөшүү токтотулду.* /start командасын териңиз.",
	},
	domain.MsgError: {
		domain.LanguageEnglish: "⚠️ *Error:* Unable to process your request at this time. Please try again later.",
		domain.LanguageRussian: "⚠️ *Ошибка:* Невозможно обработать запрос сейчас. Попробуйте позже.",
		domain.LanguageKazakh:  "⚠️ *Қате:* Кейінірек қайталап көріңіз.",
		domain.LanguageUzbek:   "⚠️ *Xato:* Keyinroq urinib ko‘ring.",
		domain.LanguageKyrgyz:  "⚠️ *Ката:* Кийинчерээк аракет кылып көрүңүз.",
	},
	domain.MsgStartHint: {
		domain.LanguageEnglish: "Type /start to set up your profile or /lesson to pick a task.",
		domain.LanguageRussian: "Введите /start, чтобы настроить профиль, или /lesson, чтобы выбрать задание.",
	},
	domain.MsgLesson: {
		domain.LanguageEnglish: "{body}",
	},
	domain.MsgEssayAssigned: {
		domain.LanguageEnglish: "📝 *Your essay topic:* {topic}\n\nWrite your essay and send it as one message.",
		domain.LanguageRussian: "📝 *Тема эссе:* {topic}\n\nНапишите эссе и отправьте его одним сообщением.",
	},
	domain.MsgEssayResumed: {
		domain.LanguageEnglish: "✍️ *Your open essay topic:* {topic}\n\nSend your essay as one message.",
		domain.LanguageRussian: "✍️ *Ваша текущая тема эссе:* {topic}\n\nОтправьте эссе одним сообщением.",
	},
	domain.MsgEssayFeedback: {
		domain.LanguageEnglish: "📋 *Essay feedback* ({score}/10)\n\n{body}",
		domain.LanguageRussian: "📋 *Отзыв об эссе* ({score}/10)\n\n{body}",
	},
	domain.MsgEssayUnavailable: {
		domain.LanguageEnglish: "This essay assignment is no longer open. Use /lesson to get a new one.",
		domain.LanguageRussian: "Это задание больше не активно. Используйте /lesson, чтобы получить новое.",
	},
	domain.MsgPointsAwarded: {
		domain.LanguageEnglish: "⭐ +{points} points. Total score: *{score}*",
		domain.LanguageRussian: "⭐ +{points} баллов. Всего: *{score}*",
	},
	domain.MsgReminder: {
		domain.LanguageEnglish: "🌟 Time to improve your English! Let's learn together! 🚀",
		domain.LanguageRussian: "🌟 Время улучшать ваш английский! Давайте учиться вместе! 🚀",
		domain.LanguageKazakh:  "🌟 Ағылшын тіліңізді жетілдіретін уақыт келді! Бірге оқиық! 🚀",
		domain.LanguageUzbek:   "🌟 Ingliz tilingizni yaxshilash vaqti keldi! Keling, birga o‘rganamiz! 🚀",
		domain.LanguageKyrgyz:  "🌟 Англис тилин жакшыртуу убактысы келди! Келгиле, бирге окуйлу! 🚀",
	},
}

var actionLabels = map[domain.Action]localized{
	domain.ActionRetakeAssessment: {
		domain.LanguageEnglish: "🔄 Retake Test",
		domain.LanguageRussian: "🔄 Пересдать тест",
		domain.LanguageKazakh:  "🔄 Тестті қайта тапсыру",
		domain.LanguageUzbek:   "🔄 Testni qayta topshirish",
		domain.LanguageKyrgyz:  "🔄 Тестти кайрадан берүү",
	},
	domain.ActionContinueSetup: {
		domain.LanguageEnglish: "➡️ Continue Setup",
		domain.LanguageRussian: "➡️ Продолжить настройку",
		domain.LanguageKazakh:  "➡️ Орнатуды жалғастыру",
		domain.LanguageUzbek:   "➡️ Sozlamani davom ettirish",
		domain.LanguageKyrgyz:  "➡️ Орнотууну улантуу",
	},
	domain.ActionFinishSetup: {
		domain.LanguageEnglish: "➡️ Finish setup",
		domain.LanguageRussian: "➡️ Завершить настройку",
		domain.LanguageKazakh:  "➡️ Орнатуды аяқтау",
		domain.LanguageUzbek:   "➡️ Sozlamani tugatish",
		domain.LanguageKyrgyz:  "➡️ Орнотууну бүтүрүү",
	},
	domain.ActionCancelRegistration: {
		domain.LanguageEnglish: "❌ Cancel Registration",
		domain.LanguageRussian: "❌ Перепройти регистрацию",
		domain.LanguageKazakh:  "❌ Тіркеуді қайталау",
		domain.LanguageUzbek:   "❌ Ro'yxatdan o'tishni bekor qilish",
		domain.LanguageKyrgyz:  "❌ Каттоону кайра өткөрүү",
	},
	domain.ActionStartListening:         {domain.LanguageEnglish: "🎧 Listening"},
	domain.ActionStartReading:           {domain.LanguageEnglish: "📖 Reading"},
	domain.ActionGenerateNewEssay:       {domain.LanguageEnglish: "📝 ESSAY practice"},
	domain.ActionStartWritingAssignment: {domain.LanguageEnglish: "✍️ Writing Assignment"},
}

func (l localized) get(lang domain.Language) string {
	if s, ok := l[lang]; ok {
		return s
	}
	return l[domain.DefaultLanguage]
}

// lookupTemplate returns the template for key in lang, falling back to English.
func lookupTemplate(key domain.MessageKey, lang domain.Language) string {
	return messages[key].get(lang)
}

// ActionLabel is the button text for action in lang.
func ActionLabel(action domain.Action, lang domain.Language) string {
	if label := actionLabels[action].get(lang); label != "" {
		return label
	}
	return string(action)
}
