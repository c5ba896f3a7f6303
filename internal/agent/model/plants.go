package model

// Plant is one physical inspection facility. The fleet is static reference
// data; coordinates are longitude/latitude as used by the Mapbox APIs.
type Plant struct {
	ID      string
	Name    string
	Address string
	Phone   string
	Hours   string
	Lng     float64
	Lat     float64
}

var plants = []Plant{
	{
		ID:      "sjl",
		Name:    "PLANTA SJL 2",
		Address: "Av. El Sol 891 (cruce con Av. Santa Rosa, a 1 cdra. del Penal Lurigancho)",
		Phone:   "908 879 791 / 989 279 922 / 01 715 8727",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm",
		Lng:     -76.9744, Lat: -12.0188,
	},
	{
		ID:      "trapiche",
		Name:    "PLANTA TRAPICHE",
		Address: "Av. Alfredo Mendiola Mz. E-6 Lt. 9 (Antes del cruce Panam. Norte con desvío a Trapiche)",
		Phone:   "01 710-9245 / 01 710-9246",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm",
		Lng:     -77.0603, Lat: -11.9511,
	},
	{
		ID:      "carabayllo",
		Name:    "PLANTA CARABAYLLO",
		Address: "Av. Tupac Amaru km. 22 Carretera Lima - Canta (Frente al Paradero San Antonio)",
		Phone:   "908 879 729 / 989 279 929",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm",
		Lng:     -77.0344, Lat: -11.8503,
	},
	{
		ID:      "jicamarca",
		Name:    "PLANTA JICAMARCA",
		Address: "Av. Mar del Norte Mz.C, Lt.4 (Antes del portón)",
		Phone:   "946 309 951 / 989 279 922",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm",
		Lng:     -76.8954, Lat: -11.9350,
	},
	{
		ID:      "chosica",
		Name:    "PLANTA CHOSICA",
		Address: "Carretera Central Km. 37.5 (Antes del desvío a Santa Eulalia)",
		Phone:   "989 279 927 / 989 279 922",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm",
		Lng:     -76.7056, Lat: -11.9419,
	},
	{
		ID:      "callao1",
		Name:    "PLANTA CALLAO 1",
		Address: "Av. Néstor Gambeta #8595 (Paradero - Puente Oquendo)",
		Phone:   "946 311 128 / 01 715-1748 / 01 715-1749",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm",
		Lng:     -77.1117, Lat: -11.9167,
	},
	{
		ID:      "callao2",
		Name:    "PLANTA CALLAO 2",
		Address: "Av. Néstor Gambeta #1160 (Antes del cruce con Morales Duárez)",
		Phone:   "908 879 721 / 01 713-1881",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm, Domingos: 8:00am - 2:00pm",
		Lng:     -77.1258, Lat: -12.0348,
	},
	{
		ID:      "ate",
		Name:    "PLANTA ATE",
		Address: "Av. Separadora Industrial #2631 (Intersección con Av. Huarochirí)",
		Phone:   "960 159 264 / 01 715 3757 / 01 715 3756",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm, Domingos: 8:00am - 2:00pm",
		Lng:     -76.9439, Lat: -12.0544,
	},
	{
		ID:      "ate2",
		Name:    "PLANTA ATE 2",
		Address: "Av. Asturias 307 - Ate",
		Phone:   "989 279 922 / 960 157 673",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm",
		Lng:     -76.9183, Lat: -12.0262,
	},
	{
		ID:      "naranjal",
		Name:    "PLANTA NARANJAL",
		Address: "Las Fraguas #399 esquina con Av. Alfredo Mendiola # 4820 - Independencia",
		Phone:   "017192871 / 908 879 592",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm",
		Lng:     -77.0600, Lat: -11.9803,
	},
	{
		ID:      "sanluis",
		Name:    "PLANTA SAN LUIS",
		Address: "Av. Circunvalación #2100 (Frente al Policlínico San Luis)",
		Phone:   "908 879 601 / 989 279 922 / 01 715 6912",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm, Domingos de 8:00am a 2:00pm",
		Lng:     -76.9765, Lat: -12.0786,
	},
	{
		ID:      "atocongo",
		Name:    "PLANTA ATOCONGO",
		Address: "Carretera Panamericana Sur km. 11.3 (Frente al Mall del Sur)",
		Phone:   "908 879 597 / 01 714 1183 / 01 714 1182",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm, Domingos de 8:00am a 2:00pm",
		Lng:     -76.9814, Lat: -12.1554,
	},
	{
		ID:      "surco",
		Name:    "PLANTA SURCO",
		Address: "Jr. Catalino Miranda #137 (Frente a la Peña del Carajo)",
		Phone:   "989 279 921 / 01 715 8325 / 01 715 8326",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm, Domingos de 8:00am a 2:00pm",
		Lng:     -76.9966, Lat: -12.1383,
	},
	{
		ID:      "villamaria",
		Name:    "PLANTA VILLA MARIA DEL TRIUNFO",
		Address: "Jose Pardo 385, Villa María del Triunfo (a la altura del paradero Ícaros)",
		Phone:   "908 879 787 / 01 717 3010 / 01 717 3011",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm, Domingos de 8:00am a 2:00pm",
		Lng:     -76.9420, Lat: -12.1661,
	},
	{
		ID:      "lurin",
		Name:    "PLANTA LURIN",
		Address: "Av. Panamericana Sur - Sub Lt. 4 Mz. U - Huertos de Lurín (con calle Los Laureles)",
		Phone:   "989 860 137 / 989 279 922",
		Hours:   "Lunes a Sábado de 7:00am a 9:00pm, Domingos: 8:00am - 2:00pm",
		Lng:     -76.8971, Lat: -12.2524,
	},
}

// Plants returns all known inspection plants in a stable order.
func Plants() []Plant {
	out := make([]Plant, len(plants))
	copy(out, plants)
	return out
}
