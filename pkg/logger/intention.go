package logger

// Intention represents the semantic intent of a log line, orthogonal to level.
// It keeps emojis out of call sites while the console still shows an icon and
// the file log carries a structured "intention" attribute.
type Intention string

const (
	IntentionTask       Intention = "task"
	IntentionReasoning  Intention = "reasoning"
	IntentionScreenshot Intention = "screenshot"
	IntentionUpload     Intention = "upload"
	IntentionModel      Intention = "model"
	IntentionMouse      Intention = "mouse"
	IntentionKeyboard   Intention = "keyboard"
	IntentionClipboard  Intention = "clipboard"
	IntentionQuestion   Intention = "question"
	IntentionRetry      Intention = "retry"
	IntentionStatistics Intention = "statistics"
	IntentionStatus     Intention = "status"
	IntentionWarning    Intention = "warning" // no icon mapping; level handles emphasis
	IntentionError      Intention = "error"   // no icon mapping; level handles emphasis
	IntentionSuccess    Intention = "success"
	IntentionDebug      Intention = "debug"
	IntentionCancel     Intention = "cancel"
	IntentionConfig     Intention = "config"
)

// iconFor returns a short emoji string for console output for the intention.
func iconFor(i Intention) string {
	switch i {
	case IntentionTask:
		return "🎯"
	case IntentionReasoning:
		return "🧠"
	case IntentionScreenshot:
		return "📸"
	case IntentionUpload:
		return "☁️"
	case IntentionModel:
		return "🤖"
	case IntentionMouse:
		return "🖱️"
	case IntentionKeyboard:
		return "⌨️"
	case IntentionClipboard:
		return "📋"
	case IntentionQuestion:
		return "❓"
	case IntentionRetry:
		return "🔄"
	case IntentionStatistics:
		return "📊"
	case IntentionStatus:
		return "ℹ️"
	case IntentionSuccess:
		return "✅"
	case IntentionDebug:
		return "🛠️"
	case IntentionCancel:
		return "🛑"
	case IntentionConfig:
		return "⚙️"
	default:
		return "➤"
	}
}
