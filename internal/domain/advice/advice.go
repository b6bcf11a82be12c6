// Package advice holds the guidance shown next to a risk estimate.
package advice

import (
	"github.com/okian/burnrisk/internal/domain/scoring"
	"github.com/shopspring/decimal"
)

// Advice is a headline with a short list of tips.
type Advice struct {
	Tier     scoring.Tier `json:"tier,omitempty"`
	Headline string       `json:"headline"`
	Intro    string       `json:"intro"`
	Tips     []string     `json:"tips"`
}

var byTier = map[scoring.Tier]Advice{
	scoring.TierHigh: {
		Tier:     scoring.TierHigh,
		Headline: "Le risque de burn-out sévère détecté est très élevé.",
		Intro:    "Voici quelques conseils adaptés à votre situation :",
		Tips: []string{
			"Consultez rapidement un professionnel de santé (médecin traitant, psychologue, psychiatre) pour faire le point sur votre état de santé.",
			"Envisagez un arrêt de travail temporaire si vous êtes en situation d’épuisement avancé. Cela peut vous permettre de prendre du recul et de vous reposer.",
			"Prenez soin de vous : veillez à votre sommeil, réduisez les surstimulations (notifications, écrans...), et accordez-vous des moments de récupération sans culpabilité.",
			"Ne restez pas isolé·e : parlez à vos proches, à un collègue de confiance ou à votre médecin du travail. Vous pouvez aussi contacter des associations de soutien.",
			"Pensez à consulter votre médecin du travail pour un éventuel aménagement de poste (réduction des horaires, baisse de charge, télétravail temporaire...).",
		},
	},
	scoring.TierModerate: {
		Tier:     scoring.TierModerate,
		Headline: "Un risque modéré de burn-out est détecté.",
		Intro:    "Quelques recommandations pour agir à temps :",
		Tips: []string{
			"Soyez attentif·ve aux signaux de fatigue : troubles du sommeil, irritabilité, perte de motivation, etc.",
			"Essayez d’identifier les facteurs de stress dans votre environnement de travail : surcharge, manque de reconnaissance, tensions relationnelles…",
			"Organisez vos priorités, apprenez à dire non si besoin, et aménagez-vous des temps de déconnexion.",
			"Échangez avec votre supérieur·e ou RH si certaines tâches vous semblent insoutenables ou mal comprises.",
			"Envisagez un accompagnement psychologique préventif (psychologue, thérapeute, groupe de parole).",
		},
	},
	scoring.TierLow: {
		Tier:     scoring.TierLow,
		Headline: "Aucun risque préoccupant de burn-out n'est détecté.",
		Intro:    "Vous semblez actuellement dans une situation stable. Voici quelques conseils pour préserver votre équilibre :",
		Tips: []string{
			"Maintenez des temps de récupération réguliers : pauses, congés, moments de détente.",
			"Entretenez vos relations sociales au travail et en dehors : soutien et reconnaissance sont protecteurs.",
			"Soyez à l’écoute de vous-même : en cas de changement d’humeur, fatigue persistante ou perte de sens, n’hésitez pas à consulter.",
			"Continuez à vous questionner sur le sens de votre travail, et à ajuster vos objectifs personnels et professionnels.",
		},
	},
}

var unscored = Advice{
	Headline: "Votre profil ne peut pas être évalué par le modèle actuel.",
	Intro:    "Voici néanmoins des conseils utiles si vous ressentez une charge mentale importante ou des signes d'épuisement :",
	Tips: []string{
		"Écoutez vos signaux d’alerte : troubles du sommeil, fatigue, irritabilité, perte d’envie ou de concentration sont des indicateurs importants.",
		"Parlez-en à un·e professionnel·le de santé si vous avez un doute ou ressentez un mal-être.",
		"N'attendez pas que la situation s'aggrave : il est possible de prévenir le burn-out par des ajustements simples dans l'organisation, la charge ou le soutien au travail.",
		"Entourez-vous de personnes de confiance, au travail ou en dehors, et ne restez pas seul·e.",
		"Consultez votre médecin du travail si besoin : il peut vous aider à adapter vos conditions de travail.",
	},
}

// For returns the advice of a tier. Unknown tiers get the unscored advice.
func For(t scoring.Tier) Advice {
	a, ok := byTier[t]
	if !ok {
		return Unscored()
	}
	return clone(a)
}

// Unscored returns the generic advice shown when no estimate is possible.
func Unscored() Advice {
	return clone(unscored)
}

func clone(a Advice) Advice {
	a.Tips = append([]string(nil), a.Tips...)
	return a
}

var hundred = decimal.NewFromInt(100)

// Percent converts a probability to a percentage rounded half away from zero
// to one decimal place.
func Percent(p float64) float64 {
	return decimal.NewFromFloat(p).Mul(hundred).Round(1).InexactFloat64()
}

// FormatPercent renders a probability as "7.9 %".
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p).Mul(hundred).Round(1).StringFixed(1) + " %"
}
