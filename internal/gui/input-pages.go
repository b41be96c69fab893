package gui

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/FlagBrew/local-pokedex/internal/database"
	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/rivo/tview"
)

var blackListedChars = []rune{
	'\'', '$', '%', '@', '#', '!', ';', ':', '*', '?', '|', '>', '<', '&', '\\',
}

func portAccept(textToCheck string, lastChar rune) bool {
	if !unicode.IsDigit(lastChar) {
		return false
	}
	num, _ := strconv.Atoi(textToCheck)
	return num > 0 && num <= 65535
}

func digitsOnly(_ string, lastChar rune) bool {
	return unicode.IsDigit(lastChar)
}

// probeDatabase opens and pings the database the wizard is about to save.
func probeDatabase(cfg *models.DatabaseConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	return client.Close()
}

func (g *Gui) databaseConfigPage(p *tview.Pages, dbType string) tview.Primitive {
	form := tview.NewForm()
	fieldNames := dbFields(dbType)

	values := splitDSN(dbType, "")
	if g.config.Database.DBType == dbType {
		values = splitDSN(dbType, g.config.Database.ConnectionString)
	}

	for i, name := range fieldNames {
		changed := func(text string) { values[i] = text }

		switch name {
		case "File Name":
			form.AddInputField(name, values[i], 30, func(_ string, lastChar rune) bool {
				return !slices.Contains(blackListedChars, lastChar)
			}, changed)
		case "Password":
			form.AddPasswordField(name, values[i], 20, '*', changed)
		case "Port":
			form.AddInputField(name, values[i], 20, portAccept, changed)
		default:
			form.AddInputField(name, values[i], 20, nil, changed)
		}
	}

	frame := framed(form, "Configuring Database: "+dbType, formHelp, footerForm)

	form.AddButton("Submit", func() {
		dsn, err := buildDSN(dbType, values)
		if err == nil {
			cfg := models.DatabaseConfig{DBType: dbType, ConnectionString: dsn}
			if err = probeDatabase(&cfg); err != nil {
				err = fmt.Errorf("%s connection error: %w", dbType, err)
			}
		}
		if err != nil {
			showErrors(frame, formHelp, []string{err.Error()})
			return
		}

		showErrors(frame, formHelp, nil)
		g.config.Database = models.DatabaseConfig{
			DBType:           dbType,
			ConnectionString: dsn,
		}

		p.AddPage("http-config", g.httpConfigPage(p), true, false)
		p.SwitchToPage("http-config")
	})

	return frame
}

// listenAddresses returns 0.0.0.0 followed by the non link-local addresses
// bound to this machine.
func listenAddresses() ([]string, error) {
	available := []string{"0.0.0.0"}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return available, err
	}
	for _, address := range addrs {
		if strings.HasPrefix(address.String(), "fe80") {
			continue
		}
		available = append(available, strings.Split(address.String(), "/")[0])
	}
	return available, nil
}

func (g *Gui) httpConfigPage(p *tview.Pages) tview.Primitive {
	form := tview.NewForm()

	chosenAddr := "0.0.0.0"
	chosenPort := "8080"
	rateLimit := strconv.Itoa(g.config.HTTP.RateLimit)
	uploadMB := strconv.FormatInt(g.config.HTTP.UploadLimit()>>20, 10)

	if g.config.HTTP.ListeningAddr != "" {
		chosenAddr = g.config.HTTP.ListeningAddr
	}
	if g.config.HTTP.Port != 0 {
		chosenPort = strconv.Itoa(g.config.HTTP.Port)
	}

	ipHelpText := `0.0.0.0 listens on every address of this machine, which is what most setups want.
Pick a specific address only if it is static; the config file must be updated if it changes.`

	availableAddresses, err := listenAddresses()
	if err != nil {
		ipHelpText = fmt.Sprintf("The addresses of this machine could not be listed, falling back to 0.0.0.0.\nError info: %s", err)
	}

	index := slices.Index(availableAddresses, chosenAddr)
	if index == -1 {
		index = 0
	}

	form.AddTextView("IP Info", ipHelpText, 0, 0, true, true)
	form.AddDropDown("Listening Address", availableAddresses, index, func(option string, _ int) {
		chosenAddr = option
	})
	form.AddInputField("Port", chosenPort, 20, portAccept, func(text string) {
		chosenPort = text
	})
	form.AddInputField("Requests per minute per IP (0 = unlimited)", rateLimit, 10, digitsOnly, func(text string) {
		rateLimit = text
	})
	form.AddInputField("Max upload size (MB)", uploadMB, 10, digitsOnly, func(text string) {
		uploadMB = text
	})

	frame := framed(form, "Configuring HTTP", formHelp, footerForm)

	form.AddButton("Submit", func() {
		errs := []string{}

		port, err := strconv.Atoi(chosenPort)
		if err != nil || port < 1 || port > 65535 {
			errs = append(errs, "Port: Please enter a valid port number")
		}
		limit, err := strconv.Atoi(rateLimit)
		if err != nil {
			errs = append(errs, "Requests per minute: Please enter a number")
		}
		mb, err := strconv.ParseInt(uploadMB, 10, 64)
		if err != nil || mb < 1 {
			errs = append(errs, "Max upload size: Please enter at least 1")
		}

		if len(errs) == 0 {
			l, err := net.Listen("tcp", net.JoinHostPort(chosenAddr, chosenPort))
			if err != nil {
				errs = append(errs, err.Error())
			} else {
				l.Close()
			}
		}

		showErrors(frame, formHelp, errs)
		if len(errs) > 0 {
			return
		}

		g.config.HTTP = models.HTTPConfig{
			ListeningAddr:  chosenAddr,
			Port:           port,
			RateLimit:      limit,
			MaxUploadBytes: mb << 20,
		}

		p.AddPage("auth-config", g.authConfigPage(p), true, false)
		p.SwitchToPage("auth-config")
	})

	return frame
}

// randomSecret returns a 32 byte hex-encoded signing secret.
func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}

func (g *Gui) authConfigPage(p *tview.Pages) tview.Primitive {
	form := tview.NewForm()

	auth := g.config.Auth
	if auth.Secret == "" {
		auth.Secret = randomSecret()
	}
	if auth.Issuer == "" {
		auth.Issuer = "local-pokedex"
	}
	if auth.AdminRole == "" {
		auth.AdminRole = "Admin"
	}
	misc := g.config.Misc

	form.AddTextView("Tokens", `Every catalog endpoint expects an HS256 bearer token carrying the admin role.
Run the server with --issue-token <user id> to print one once the config is saved.`, 0, 0, true, true)
	form.AddPasswordField("Signing Secret", auth.Secret, 40, '*', func(text string) {
		auth.Secret = text
	})
	form.AddInputField("Issuer", auth.Issuer, 30, nil, func(text string) {
		auth.Issuer = text
	})
	form.AddInputField("Admin Role", auth.AdminRole, 30, nil, func(text string) {
		auth.AdminRole = text
	})
	form.AddInputField("Seed File (optional)", misc.SeedFile, 40, nil, func(text string) {
		misc.SeedFile = text
	})
	form.AddCheckbox("Import seed file on next start", misc.SeedOnStart, func(checked bool) {
		misc.SeedOnStart = checked
	})

	frame := framed(form, "Configuring Access", formHelp, footerForm)

	form.AddButton("Submit", func() {
		errs := []string{}
		if len(auth.Secret) < 16 {
			errs = append(errs, "Signing Secret: must be at least 16 characters")
		}
		if strings.TrimSpace(auth.Issuer) == "" {
			errs = append(errs, "Issuer: is required")
		}
		if strings.TrimSpace(auth.AdminRole) == "" {
			errs = append(errs, "Admin Role: is required")
		}
		if misc.SeedOnStart && strings.TrimSpace(misc.SeedFile) == "" {
			errs = append(errs, "Seed File: is required to import on start")
		}

		showErrors(frame, formHelp, errs)
		if len(errs) > 0 {
			return
		}

		g.config.Auth = auth
		g.config.Misc = misc

		p.AddPage("confirm", g.confirmationPage(p), true, false)
		p.SwitchToPage("confirm")
	})

	return frame
}
