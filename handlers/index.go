package handlers

import (
	"html/template"
	"log"
	"net/http"
)

type indexPage struct {
	PublicKey string
	Minimum   string
	Flashes   []string
}

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Index renders the donation form.
func (h *DonationHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		PublicKey: h.publicKey,
		Minimum:   h.gateway.MinimumAmount().String(),
	}

	session, err := h.sessions.Get(r, sessionName)
	if err != nil {
		log.Printf("Discarding unreadable session: %v", err)
	}
	if flashes := session.Flashes(); len(flashes) > 0 {
		for _, f := range flashes {
			if s, ok := f.(string); ok {
				page.Flashes = append(page.Flashes, s)
			}
		}
		if err := session.Save(r, w); err != nil {
			log.Printf("Failed to save session: %v", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, page); err != nil {
		log.Printf("Failed to render index: %v", err)
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Donate</title>
</head>
<body data-paystack-key="{{.PublicKey}}">
    {{range .Flashes}}<p class="flash">{{.}}</p>{{end}}
    <p id="success" hidden>Thank you! Your donation was received.</p>
    <p id="cancel" hidden>Your donation could not be confirmed.</p>
    <form id="donation-form">
        <label>Name <input name="name" type="text"></label>
        <label>Email <input name="email" type="email" required></label>
        <label>Amount (NGN) <input name="amount" type="number" min="{{.Minimum}}" step="1" required></label>
        <button type="submit">Donate</button>
    </form>
    <p id="error" role="alert"></p>
    <script>
        var hash = window.location.hash.slice(1);
        if (hash === "success" || hash === "cancel") {
            document.getElementById(hash).hidden = false;
        }
        document.getElementById("donation-form").addEventListener("submit", function (e) {
            e.preventDefault();
            fetch("/pay", { method: "POST", body: new URLSearchParams(new FormData(e.target)) })
                .then(function (res) { return res.json(); })
                .then(function (body) {
                    if (body.status === "success" && body.data && body.data.authorization_url) {
                        window.location = body.data.authorization_url;
                        return;
                    }
                    document.getElementById("error").textContent = body.message || "Payment initialization failed";
                });
        });
    </script>
</body>
</html>
`
