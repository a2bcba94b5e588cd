package knowledge

import "sync"

var (
	builtinOnce sync.Once
	builtinBase *Base
	builtinErr  error
)

// Builtin returns the reference catalog. It is built on first use and shared afterwards.
func Builtin() (*Base, error) {
	builtinOnce.Do(func() {
		builtinBase, builtinErr = FromEntries(builtinEntries())
	})
	return builtinBase, builtinErr
}

// Four diseases at 0.15 each, the healthy baseline at 0.40.
func builtinEntries() []Entry {
	return []Entry{
		{
			Condition: Condition{
				Name:     "Cataract",
				Overview: "A cataract is a clouding of the clear lens of the eye. For people who have cataracts, seeing through cloudy lenses is a bit like looking through a frosty or fogged-up window.",
				Causes: []string{
					"Aging is the most common cause.",
					"Diabetes.",
					"Excessive exposure to sunlight.",
					"Smoking and alcohol use.",
					"Eye injury or inflammation.",
				},
				Symptoms: []string{
					"Clouded, blurred or dim vision.",
					"Increasing difficulty with vision at night.",
					"Sensitivity to light and glare.",
					"Need for brighter light for reading and other activities.",
					"Seeing 'halos' around lights.",
				},
				Precautions: []string{
					"Protect your eyes from UVB rays by wearing sunglasses.",
					"Quit smoking.",
					"Choose a healthy diet that includes plenty of fruits and vegetables.",
					"Limit alcohol intake.",
				},
				DoctorAdvice:   "Surgery is the only way to remove cataracts. If your vision isn't clear enough to do what you need to do, your doctor may suggest surgery.",
				Recommendation: "Consult an ophthalmologist for potential surgery.",
			},
			Weight: 0.15,
		},
		{
			Condition: Condition{
				Name:     "Glaucoma",
				Overview: "Glaucoma is a group of eye conditions that damage the optic nerve, the health of which is vital for good vision. This damage is often caused by an abnormally high pressure in your eye.",
				Causes: []string{
					"High internal eye pressure (intraocular pressure).",
					"Age (over 60).",
					"Family history of glaucoma.",
					"Thin corneas.",
					"Extreme nearsightedness or farsightedness.",
				},
				Symptoms: []string{
					"Patchy blind spots in your side (peripheral) or central vision.",
					"Tunnel vision in advanced stages.",
					"Severe headache.",
					"Eye pain.",
					"Nausea and vomiting.",
				},
				Precautions: []string{
					"Get regular dilated eye examinations.",
					"Know your family's eye health history.",
					"Wear eye protection.",
					"Take prescribed eyedrops regularly.",
					"Exercise safely.",
				},
				DoctorAdvice:   "Glaucoma damage can't be reversed. But treatment and regular checkups can help slow or prevent vision loss, especially if you catch the disease in its early stages.",
				Recommendation: "Urgent IOP check required. Visit a specialist.",
			},
			Weight: 0.15,
		},
		{
			Condition: Condition{
				Name:     "Diabetic Retinopathy",
				Overview: "Diabetic retinopathy is a diabetes complication that affects eyes. It's caused by damage to the blood vessels of the light-sensitive tissue at the back of the eye (retina).",
				Causes: []string{
					"Long-standing diabetes.",
					"Poor control of blood sugar level.",
					"High blood pressure.",
					"High cholesterol.",
					"Pregnancy.",
				},
				Symptoms: []string{
					"Spots or dark strings floating in your vision (floaters).",
					"Blurred vision.",
					"Fluctuating vision.",
					"Impaired color vision.",
					"Dark or empty areas in your vision.",
				},
				Precautions: []string{
					"Manage your diabetes.",
					"Monitor your blood sugar level.",
					"Keep your blood pressure and cholesterol under control.",
					"Pay attention to vision changes.",
					"Quit smoking.",
				},
				DoctorAdvice:   "Careful management of your diabetes is the best way to prevent vision loss. If you have diabetes, see your eye doctor for a yearly eye exam with dilation.",
				Recommendation: "Manage blood sugar levels and schedule a retinal exam.",
			},
			Weight: 0.15,
		},
		{
			Condition: Condition{
				Name:     "Conjunctivitis",
				Overview: "Conjunctivitis (pink eye) is an inflammation or infection of the transparent membrane (conjunctiva) that lines your eyelid and covers the white part of your eyeball.",
				Causes: []string{
					"Viruses.",
					"Bacteria.",
					"Allergies.",
					"A chemical splash in the eye.",
					"A foreign object in the eye.",
				},
				Symptoms: []string{
					"Redness in one or both eyes.",
					"Itchiness in one or both eyes.",
					"A gritty feeling in one or both eyes.",
					"A discharge that forms a crust during the night.",
					"Tearing.",
				},
				Precautions: []string{
					"Don't touch your eyes with your hands.",
					"Wash your hands often.",
					"Use a clean towel and washcloth daily.",
					"Don't share towels or washcloths.",
					"Change your pillowcases often.",
				},
				DoctorAdvice:   "Treatment depends on the cause. Bacterial pink eye may need antibiotic drops. Viral pink eye often clears up on its own. Allergic pink eye can be helped with specific eyedrops.",
				Recommendation: "Use prescribed eye drops and maintain hygiene.",
			},
			Weight: 0.15,
		},
		{
			Condition: Condition{
				Name:     HealthySentinel,
				Overview: "Your eyes appear healthy with no visible signs of common diseases.",
				Causes:   []string{"Healthy lifestyle.", "Regular checkups.", "Good hygiene."},
				Symptoms: []string{"Clear vision.", "No pain or redness.", "Good peripheral vision."},
				Precautions: []string{
					"Maintain a healthy diet.",
					"Wear sunglasses.",
					"Rest your eyes from screens (20-20-20 rule).",
					"Stay hydrated.",
				},
				DoctorAdvice:   "Keep up the good work! Continue with regular comprehensive eye exams to ensure your eyes remain healthy.",
				Recommendation: "Eyes look healthy. Maintain regular checkups.",
			},
			Weight: 0.40,
		},
	}
}
