package chat

import (
	apierrors "github.com/econexus/econexus/internal/errors"
	"github.com/econexus/econexus/internal/fallback"
	"github.com/econexus/econexus/internal/models"
)

// Failure is the user-facing outcome of a failed reply
type Failure struct {
	DisplayText string
	Status      models.Status
}

// DescribeFailure maps a failed reply to Dutch text for the placeholder plus the
// connection status to apply. Every branch ends with an offline fallback tip for
// originalInput, so the user always receives something actionable.
func DescribeFailure(err error, originalInput string) Failure {
	return describeFailure(err, fallback.Reply(originalInput))
}

// describeFailure does the mapping with an already computed fallback reply
func describeFailure(err error, tip string) Failure {
	ce := apierrors.Classify(err)
	if ce == nil {
		ce = apierrors.NewUnknownError(nil)
	}

	switch ce.Kind {
	case apierrors.KindMissingCredential:
		return Failure{
			Status: models.StatusWarning,
			DisplayText: "Ik heb je Google Gemini API-sleutel nodig om echte antwoorden te geven. " +
				"Stel je sleutel in met 'econexus config set-key' of via de omgevingsvariabele " +
				"ECONEXUS_GEMINI_API_KEY en start EcoNexus opnieuw. Tot die tijd alvast een duurzame tip: " + tip,
		}
	case apierrors.KindTimeout:
		return Failure{
			Status: models.StatusError,
			DisplayText: "De verbinding met Gemini duurde te lang. Probeer het nog eens. " +
				"Hier is intussen een duurzame suggestie: " + tip,
		}
	case apierrors.KindNetwork:
		return Failure{
			Status: models.StatusError,
			DisplayText: "Ik kon geen contact maken met Gemini vanwege een netwerkfout. " +
				"Controleer je verbinding en probeer het later opnieuw. Intussen: " + tip,
		}
	case apierrors.KindAPI, apierrors.KindEmptyResponse:
		return Failure{
			Status:      models.StatusError,
			DisplayText: ce.Error() + " Ik geef je voorlopig een offline EcoNexus-tip: " + tip,
		}
	default:
		return Failure{
			Status: models.StatusError,
			DisplayText: "Er is een onverwachte fout opgetreden. Probeer het opnieuw of start een nieuw gesprek. " +
				"Hier is alvast een duurzame suggestie: " + tip,
		}
	}
}
