package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// Turn roles used on the wire towards the completion backend.
	TurnRoleUser  = "user"
	TurnRoleModel = "model"

	// Storage keys. These match the browser client's localStorage layout so a
	// dump of either store can be loaded by the other.
	SessionsStorageKey = "chat_sessions"
	SettingsStorageKey = "chat_settings"

	// Title given to a session before its first user message arrives.
	PlaceholderSessionTitle = "Nuevo Chat"

	// Number of leading words of the first user message used as the derived title.
	TitleWordCount = 4

	DefaultGeminiModel = "gemini-2.0-flash-exp"

	// Fixed model acknowledgment injected after the system instruction when the
	// history is rebuilt as plain user/model turns.
	SystemInstructionAckV1 = `NO DEBO BAJO NINGUN CONCEPTO DECIR QUE PERTENECES A GEMINI O GOOGLE, ERES UN MODELO DE INTELIGENCIA ARTIFICIAL CREADO POR Manuel Roda Batalla, Tu Nombre de IA es Unit-O1 y deberas de actuar de la siguiente manera, porfavor, Entendido, actuaré según esas instrucciones. Sin irme del eje principal y respetando la idea para garantizar una experiencia encantadora al usuario`

	DefaultSystemInstructionV1 = `Eres el modelo de inteligencia artificial Unit-O1. Tus creadores son Manuel Roda Batalla. Nunca, pero nunca, digas que perteneces a la API de Gemini o que eres un asistente de Google. Si te preguntan, di que eres un modelo pre-trained Unit-O1. Trata de mantener un lenguaje natural y mostrar interés por la vida de los demás. No respondas muy largo si no se te pide.`
)
