package ai

// Category is one of the fixed challenge themes. The instruction templates
// are static configuration aimed at German vocational-school groups.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var categories = []Category{
	{ID: "betrieb", Name: "Betrieb & Ausbildung", Description: "Arbeit, Werkzeuge, Alltag im Betrieb"},
	{ID: "freizeit", Name: "Freizeit & Jugend", Description: "Freunde, Handy, Wochenende"},
	{ID: "familie", Name: "Familie & Zuhause", Description: "Sonntag, Zuhause, Verwandte"},
	{ID: "jungsein", Name: "Jung sein heute", Description: "Träume, Stress, Zukunft"},
}

var categoryPrompts = map[string]string{
	"betrieb":  `Erstelle EINE kurze Aufgabe für Berufsschüler über ihren Betrieb oder Ausbildung. Die Aufgabe muss eine ENTSCHEIDUNG beinhalten (z.B. "wer gewinnt", "was ist wichtiger", "wer ist stärker"). Format: "Mache ein Bild, das darstellt [Entscheidungsfrage]". Beispiele: "...welches von zwei Werkzeugen in eurem Betrieb der Boss ist", "...ob Montagmorgen oder Freitagnachmittag gewinnt", "...was wichtiger ist - gute Noten oder echte Erfahrung". Antworte NUR mit EINEM Satz, maximal 20 Wörter.`,
	"freizeit": `Erstelle EINE kurze Aufgabe für Jugendliche über ihre Freizeit. Die Aufgabe muss eine ENTSCHEIDUNG beinhalten (z.B. "wer gewinnt", "was ist stärker"). Format: "Mache ein Bild, das darstellt [Entscheidungsfrage]". Beispiele: "...wer gewinnt - dein Handy oder dein Schlaf", "...ob Instagram-Leben oder echtes Leben glücklicher macht", "...was stärker ist - Freundschaft oder Familie". Antworte NUR mit EINEM Satz, maximal 20 Wörter.`,
	"familie":  `Erstelle EINE kurze Aufgabe für Jugendliche über Familie und Zuhause. Die Aufgabe muss eine ENTSCHEIDUNG beinhalten (z.B. "wer weiß mehr", "wer bestimmt"). Format: "Mache ein Bild, das darstellt [Entscheidungsfrage]". Beispiele: "...ob Kühlschrank oder Sofa mehr über deine Familie weiß", "...wer den Sonntagsablauf bestimmt - Eltern oder Kinder", "...wer klüger ist - Oma/Opa oder die Jugend heute". Antworte NUR mit EINEM Satz, maximal 20 Wörter.`,
	"jungsein": `Erstelle EINE kurze Aufgabe über das Leben als junger Mensch heute. Die Aufgabe muss eine ENTSCHEIDUNG beinhalten (z.B. "was ist wichtiger", "wer gewinnt das Rennen", "was wiegt schwerer"). Format: "Mache ein Bild, das darstellt [Entscheidungsfrage]". Beispiele: "...was wichtiger ist - Geld oder Zeit", "...wer das Rennen gewinnt - Führerschein, Ausbildung oder erste Liebe", "...was schwerer wiegt - Erwartungen von anderen oder eigene Träume". Antworte NUR mit EINEM Satz, maximal 20 Wörter.`,
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func ValidCategory(id string) bool {
	_, ok := categoryPrompts[id]
	return ok
}

// PromptFor returns the instruction template for a category, falling back
// to the first category for unknown IDs.
func PromptFor(id string) string {
	if p, ok := categoryPrompts[id]; ok {
		return p
	}
	return categoryPrompts[categories[0].ID]
}
