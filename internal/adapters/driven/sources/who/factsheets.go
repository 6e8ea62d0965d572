package who

import (
	"fmt"
	"strings"
)

// FactSheet is a short built-in summary for a common condition.
type FactSheet struct {
	Condition string
	Text      string
}

var factSheets = []FactSheet{
	{"diabetes", "Diabetes is a chronic disease that occurs when the pancreas does not produce enough insulin " +
		"or the body cannot use it effectively, raising blood glucose. Type 2 diabetes accounts for most cases and " +
		"is linked to excess body weight and physical inactivity. A healthy diet, regular physical activity, " +
		"normal body weight and avoiding tobacco prevent or delay type 2 diabetes. Treatment combines diet, " +
		"physical activity, medication and regular screening for damage to the eyes, kidneys and feet."},
	{"hypertension", "Hypertension (raised blood pressure) is a reading of 140/90 mmHg or higher on two " +
		"different days. It often has no symptoms and is a major cause of heart attack, stroke and kidney " +
		"damage. Risk factors include high salt intake, excess weight, alcohol, physical inactivity and age. " +
		"Lifestyle changes and antihypertensive medicines control it; regular measurement is recommended."},
	{"malaria", "Malaria is a life-threatening disease caused by Plasmodium parasites spread through the bites " +
		"of infected female Anopheles mosquitoes. Symptoms include fever, headache and chills, usually 10 to 15 " +
		"days after the bite. It is preventable with insecticide-treated nets, indoor spraying and " +
		"chemoprevention, and curable with prompt artemisinin-based combination therapy."},
	{"tuberculosis", "Tuberculosis (TB) is caused by Mycobacterium tuberculosis and usually affects the lungs. " +
		"It spreads through the air when people with active TB cough. Symptoms include prolonged cough, chest " +
		"pain, weakness, weight loss, fever and night sweats. TB is preventable and curable with a standard " +
		"course of antibiotics taken for several months."},
	{"hiv", "HIV attacks the immune system; its most advanced stage is AIDS. It is transmitted through blood, " +
		"breast milk, semen and vaginal fluids. There is no cure, but antiretroviral therapy controls the virus " +
		"and prevents onward transmission. Testing, condoms, pre-exposure prophylaxis and harm reduction " +
		"services prevent infection."},
	{"covid-19", "COVID-19 is caused by the SARS-CoV-2 virus. Most people have mild to moderate respiratory " +
		"illness with fever, cough and fatigue; older people and those with underlying conditions are at higher " +
		"risk of severe disease. Vaccination, ventilation, hand hygiene and staying home when ill reduce spread."},
	{"heart disease", "Cardiovascular diseases, including coronary heart disease and stroke, are the leading " +
		"cause of death globally. Most can be prevented by addressing tobacco use, unhealthy diet, obesity, " +
		"physical inactivity and harmful alcohol use. Early detection of high blood pressure, diabetes and " +
		"raised lipids allows treatment before a heart attack or stroke."},
	{"asthma", "Asthma is a chronic lung disease in which the airways become inflamed and narrow, causing " +
		"wheezing, cough, chest tightness and shortness of breath. Triggers include allergens, smoke and " +
		"respiratory infections. Inhaled medicines control symptoms and prevent attacks."},
	{"influenza", "Seasonal influenza is an acute respiratory infection causing sudden fever, cough, headache, " +
		"muscle pain and sore throat. Most people recover within a week, but it can be severe in young children, " +
		"older adults, pregnant women and people with chronic illness. Annual vaccination is the most " +
		"effective prevention."},
	{"cancer", "Cancer is a large group of diseases in which abnormal cells grow beyond their usual boundaries " +
		"and can spread to other organs. Between 30 and 50 percent of cancers can be prevented by avoiding " +
		"tobacco, limiting alcohol, eating healthily, staying active and vaccinating against HPV and hepatitis B. " +
		"Early diagnosis and screening improve survival."},
}

// findFactSheet matches term against the built-in sheets. Exact key matches
// win, then keys contained in the term, then any shared word.
func findFactSheet(term string) (FactSheet, bool) {
	t := normalize(term)
	if t == "" {
		return FactSheet{}, false
	}

	for _, sheet := range factSheets {
		if t == normalize(sheet.Condition) {
			return sheet, true
		}
	}
	for _, sheet := range factSheets {
		if strings.Contains(t, normalize(sheet.Condition)) {
			return sheet, true
		}
	}
	termWords := strings.Fields(t)
	for _, sheet := range factSheets {
		for _, kw := range strings.Fields(normalize(sheet.Condition)) {
			for _, w := range termWords {
				if w == kw {
					return sheet, true
				}
			}
		}
	}
	return FactSheet{}, false
}

func genericGuidance(term string) string {
	return fmt.Sprintf("No condition-specific public health guidance is available for %s. "+
		"General guidance: see a qualified health worker for diagnosis and treatment, and seek urgent care "+
		"for severe, sudden or worsening symptoms. Keep vaccinations up to date, take part in recommended "+
		"screening, eat a balanced diet, stay physically active, and avoid tobacco and harmful use of alcohol.",
		term)
}
