package http

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/TransferDaily/internal/domain"
)

// uiStrings holds one row per UI string: the English key followed by the
// es, fr, de and it translations.
var uiStrings = [][5]string{
	{"Latest transfers", "Últimos fichajes", "Derniers transferts", "Neueste Transfers", "Ultimi trasferimenti"},
	{"All leagues", "Todas las ligas", "Tous les championnats", "Alle Ligen", "Tutti i campionati"},
	{"Search", "Buscar", "Rechercher", "Suche", "Cerca"},
	{"Search transfers", "Buscar fichajes", "Rechercher des transferts", "Transfers suchen", "Cerca trasferimenti"},
	{"Results for %q", "Resultados para %q", "Résultats pour %q", "Ergebnisse für %q", "Risultati per %q"},
	{"Contact", "Contacto", "Contact", "Kontakt", "Contatti"},
	{"Terms", "Términos", "Conditions", "Nutzungsbedingungen", "Termini"},
	{"Read more", "Leer más", "Lire la suite", "Weiterlesen", "Continua a leggere"},
	{"Related transfers", "Fichajes relacionados", "Transferts liés", "Ähnliche Transfers", "Trasferimenti correlati"},
	{"Newsletter", "Boletín", "Newsletter", "Newsletter", "Newsletter"},
	{"Get the daily transfer round-up by email.", "Recibe el resumen diario de fichajes por correo.", "Recevez le récapitulatif quotidien des transferts par e-mail.", "Die tägliche Transfer-Übersicht per E-Mail.", "Ricevi il riepilogo quotidiano del mercato via email."},
	{"Subscribe", "Suscribirse", "S'abonner", "Abonnieren", "Iscriviti"},
	{"Thanks for subscribing!", "¡Gracias por suscribirte!", "Merci pour votre inscription !", "Danke für dein Abonnement!", "Grazie per l'iscrizione!"},
	{"Name", "Nombre", "Nom", "Name", "Nome"},
	{"Email", "Correo electrónico", "E-mail", "E-Mail", "Email"},
	{"Subject", "Asunto", "Objet", "Betreff", "Oggetto"},
	{"Message", "Mensaje", "Message", "Nachricht", "Messaggio"},
	{"Send", "Enviar", "Envoyer", "Senden", "Invia"},
	{"Thanks, your message has been sent.", "Gracias, tu mensaje ha sido enviado.", "Merci, votre message a été envoyé.", "Danke, deine Nachricht wurde gesendet.", "Grazie, il tuo messaggio è stato inviato."},
	{"Page not found", "Página no encontrada", "Page introuvable", "Seite nicht gefunden", "Pagina non trovata"},
	{"Previous", "Anterior", "Précédent", "Zurück", "Precedente"},
	{"Next", "Siguiente", "Suivant", "Weiter", "Successivo"},
	{"No transfers found.", "No se encontraron fichajes.", "Aucun transfert trouvé.", "Keine Transfers gefunden.", "Nessun trasferimento trovato."},
	{"Page %d of %d", "Página %d de %d", "Page %d sur %d", "Seite %d von %d", "Pagina %d di %d"},
	{"rumor", "rumor", "rumeur", "Gerücht", "indiscrezione"},
	{"confirmed", "confirmado", "confirmé", "bestätigt", "confermato"},
	{"completed", "completado", "finalisé", "abgeschlossen", "concluso"},
	{"loan", "cesión", "prêt", "Leihe", "prestito"},
	{"Something went wrong. Please try again.", "Algo salió mal. Inténtalo de nuevo.", "Une erreur est survenue. Veuillez réessayer.", "Etwas ist schiefgelaufen. Bitte versuche es erneut.", "Qualcosa è andato storto. Riprova."},
	{"Transfers are unavailable right now. Please try again shortly.", "Los fichajes no están disponibles ahora. Inténtalo en breve.", "Les transferts sont indisponibles pour le moment. Réessayez bientôt.", "Transfers sind gerade nicht verfügbar. Bitte versuche es gleich erneut.", "I trasferimenti non sono disponibili ora. Riprova a breve."},
	{"Latest football transfer news, rumours and done deals.", "Las últimas noticias de fichajes, rumores y operaciones cerradas.", "Les dernières infos transferts, rumeurs et officialisations.", "Aktuelle Transfernews, Gerüchte und fixe Deals.", "Le ultime notizie di calciomercato, indiscrezioni e affari conclusi."},
	{"Terms of use", "Términos de uso", "Conditions d'utilisation", "Nutzungsbedingungen", "Termini di utilizzo"},
}

var printers = newPrinters()

func newPrinters() map[domain.Locale]*message.Printer {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, row := range uiStrings {
		for i, loc := range domain.Locales[1:] {
			if err := b.SetString(language.Make(string(loc)), row[0], row[i+1]); err != nil {
				panic(err)
			}
		}
	}
	out := make(map[domain.Locale]*message.Printer, len(domain.Locales))
	for _, loc := range domain.Locales {
		out[loc] = message.NewPrinter(language.Make(string(loc)), message.Catalog(b))
	}
	return out
}

// T translates key for loc, formatting args into it.
func T(loc domain.Locale, key string, args ...any) string {
	p, ok := printers[loc]
	if !ok {
		p = printers[domain.DefaultLocale]
	}
	return p.Sprintf(key, args...)
}
