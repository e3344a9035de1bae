package conversation

// Normalized input tokens and control phrases.
const (
	tokenContinue = "continue"
	tokenCancel   = "cancel"
	tokenOnce     = "once"

	phraseReset     = "reset settings"
	phraseStartOver = "start over"
)

// Button labels. Normalization lower-cases them back into the tokens above.
const (
	btnContinue = "Continue"
	btnCancel   = "Cancel"
	btnMale     = "Male"
	btnFemale   = "Female"
	btnBusiness = "Business"
	btnCasual   = "Casual"
	btnSport    = "Sport"
	btnYes      = "Yes"
	btnNo       = "No"
	btnOnce     = "Once"
	btnDaily    = "Daily"

	btnResetSettings = "Reset settings"
	btnStartOver     = "Start over"
)

const (
	textAgreement = "Please review the Privacy Policy, Terms of Use and the personal data consent.\n\n" +
		"By pressing \"Continue\" you accept all of them."
	textAgreementRetry = "Press \"Continue\" or \"Cancel\"."
	textCancelled      = "Cancelled. Send /start to begin again."

	textAskGender    = "What is your gender?"
	textAskStyle     = "Which clothing style do you prefer?"
	textAskInsight   = "Would you like a daily insight with your weather? (Yes/No)"
	textAskCity      = "Which city are you in?"
	textAskFrequency = "When should I send the weather? Once or Daily?"
	textAskTime      = "What time (HH:MM, 24-hour) should I send it?"
	textTimeRetry    = "That does not look like a time. Use 24-hour HH:MM, e.g. 08:30."

	textDoneOnce     = "Done! You can reset your settings or start over."
	textDoneDailyFmt = "Great, I will send your weather every day at %s."

	textSaveFailed     = "Could not save your settings. Please try again."
	textResetFailed    = "Could not reset your settings. Please try again."
	textScheduleFailed = "Saved, but scheduling failed. Send /reset and set it up again."
	textNoSession      = "Send /start to begin."
)

var (
	rowsAgreement = [][]string{{btnContinue}, {btnCancel}}
	rowsGender    = [][]string{{btnMale}, {btnFemale}}
	rowsStyle     = [][]string{{btnBusiness}, {btnCasual}, {btnSport}}
	rowsInsight   = [][]string{{btnYes}, {btnNo}}
	rowsFrequency = [][]string{{btnOnce}, {btnDaily}}
	rowsDone      = [][]string{{btnResetSettings}, {btnStartOver}}
)
