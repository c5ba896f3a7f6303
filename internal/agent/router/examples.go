package router

// Topics the router can emit.
const (
	TopicWelcome      = "welcome"
	TopicRequirements = "requirements"
	TopicPlantTariff  = "plant_tariff"
	TopicLocation     = "location"
)

type topicExamples struct {
	topic    string
	examples []string
}

// exampleSets holds the reference phrases per topic. Slice order is the
// tie-break order: when two sets reach the same maximum similarity, the one
// listed first wins.
var exampleSets = []topicExamples{
	{
		topic: TopicWelcome,
		examples: []string{
			"Hola",
			"Buenos días",
			"Buenas tardes, ¿me pueden ayudar?",
			"Hola, tengo una consulta",
			"¿Qué tal?",
			"Gracias por la información",
			"Muchas gracias, muy amable",
			"Adiós, hasta luego",
		},
	},
	{
		topic: TopicRequirements,
		examples: []string{
			"¿Qué documentos necesito para la revisión técnica?",
			"¿Cuáles son los requisitos para pasar la revisión?",
			"Es mi primera revisión técnica, ¿qué debo llevar?",
			"¿Qué papeles piden para un taxi?",
			"¿Cuándo le toca la revisión a mi auto del 2018?",
			"¿Necesito sacar cita para la revisión técnica?",
			"¿Qué pasa si mi vehículo tiene GLP?",
			"¿Cómo es el proceso de la inspección?",
			"¿Cada cuánto tiempo se renueva el certificado?",
		},
	},
	{
		topic: TopicLocation,
		examples: []string{
			"¿Dónde queda la planta más cercana?",
			"Estoy en Comas, ¿qué planta me conviene?",
			"¿Tienen plantas en el Callao?",
			"¿Cuál es la dirección de la planta de Ate?",
			"Vivo en San Juan de Lurigancho, ¿dónde puedo ir?",
			"¿Hasta qué hora atiende la planta de Lurín?",
			"¿Cómo llego a la planta de Surco?",
		},
	},
	{
		topic: TopicPlantTariff,
		examples: []string{
			"¿Cuánto cuesta la revisión técnica?",
			"¿Cuál es la tarifa para un vehículo particular?",
			"¿Qué precio tiene la revisión para taxi?",
			"¿Cuánto pagaría por mi camioneta?",
			"¿Cuáles son las tarifas de la planta de Surco?",
			"¿El precio incluye el certificado?",
		},
	},
}
