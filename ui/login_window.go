package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/amigos-terceira-idade/desktop/internal/types"
	"github.com/amigos-terceira-idade/desktop/services"
)

const requestTimeout = 30 * time.Second

// LoginWindowUI is the sign-in / sign-up window shown while no session
// exists. It only calls into the session manager; window switching is
// driven by the published session state, not by this window.
type LoginWindowUI struct {
	App fyne.App
	Win fyne.Window

	manager     *services.SessionManager
	statusLabel *widget.Label
}

// NewLoginWindow creates the login window. notice, when non-empty, is
// shown above the form; it carries messages like "your session expired".
func NewLoginWindow(a fyne.App, manager *services.SessionManager, notice string) *LoginWindowUI {
	ui := &LoginWindowUI{
		App:     a,
		manager: manager,
	}
	ui.Win = a.NewWindow("Amigos da Terceira Idade")
	ui.Win.Resize(fyne.NewSize(360, 420))
	ui.Win.SetFixedSize(true)
	ui.Win.CenterOnScreen()

	ui.statusLabel = widget.NewLabel(notice)
	ui.statusLabel.Wrapping = fyne.TextWrapWord

	tabs := container.NewAppTabs(
		container.NewTabItem("Entrar", ui.buildLoginForm()),
		container.NewTabItem("Cadastrar", ui.buildRegisterForm()),
	)

	ui.Win.SetContent(container.NewVBox(ui.statusLabel, tabs))
	return ui
}

func (ui *LoginWindowUI) buildLoginForm() fyne.CanvasObject {
	emailEntry := widget.NewEntry()
	emailEntry.SetPlaceHolder("E-mail")

	passwordEntry := widget.NewPasswordEntry()
	passwordEntry.SetPlaceHolder("Senha")

	loginButton := widget.NewButton("Entrar", func() {
		email := emailEntry.Text
		password := passwordEntry.Text
		if email == "" || password == "" {
			ui.statusLabel.SetText("Informe e-mail e senha.")
			return
		}

		ui.statusLabel.SetText("Entrando...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			_, err := ui.manager.Login(ctx, email, password)
			fyne.Do(func() {
				if err != nil {
					ui.showAuthError(err)
					return
				}
				ui.statusLabel.SetText("")
				// The session state transition triggers the window swap.
			})
		}()
	})

	return container.NewVBox(
		widget.NewLabel("Bem-vindo de volta"),
		emailEntry,
		passwordEntry,
		loginButton,
	)
}

func (ui *LoginWindowUI) buildRegisterForm() fyne.CanvasObject {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Nome completo")

	emailEntry := widget.NewEntry()
	emailEntry.SetPlaceHolder("E-mail")

	passwordEntry := widget.NewPasswordEntry()
	passwordEntry.SetPlaceHolder("Senha")

	ageEntry := widget.NewEntry()
	ageEntry.SetPlaceHolder("Idade")

	bioEntry := widget.NewMultiLineEntry()
	bioEntry.SetPlaceHolder("Conte um pouco sobre você")

	userTypeSelect := widget.NewSelect([]string{
		types.UserTypeElderly,
		types.UserTypeVolunteer,
		types.UserTypeInstitution,
	}, nil)
	userTypeSelect.PlaceHolder = "Tipo de usuário"

	registerButton := widget.NewButton("Cadastrar", func() {
		if nameEntry.Text == "" || emailEntry.Text == "" || passwordEntry.Text == "" || userTypeSelect.Selected == "" {
			ui.statusLabel.SetText("Preencha nome, e-mail, senha e tipo de usuário.")
			return
		}

		age, _ := strconv.Atoi(ageEntry.Text)
		req := types.RegisterRequest{
			Name:     nameEntry.Text,
			Email:    emailEntry.Text,
			Password: passwordEntry.Text,
			Age:      age,
			Bio:      bioEntry.Text,
			UserType: userTypeSelect.Selected,
		}

		ui.statusLabel.SetText("Criando conta...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			_, err := ui.manager.Register(ctx, req)
			fyne.Do(func() {
				if err != nil {
					ui.showAuthError(err)
					return
				}
				ui.statusLabel.SetText("")
			})
		}()
	})

	form := container.NewVBox(
		nameEntry,
		emailEntry,
		passwordEntry,
		ageEntry,
		userTypeSelect,
		bioEntry,
		registerButton,
	)
	return container.NewVScroll(form)
}

func (ui *LoginWindowUI) showAuthError(err error) {
	if errors.Is(err, services.ErrInvalidCredentials) {
		ui.statusLabel.SetText("E-mail ou senha inválidos.")
	} else {
		ui.statusLabel.SetText("Não foi possível conectar ao servidor.")
	}
	dialog.ShowError(fmt.Errorf("falha na autenticação: %w", err), ui.Win)
}
