package app

import (
	agreementrepo "github.com/znznow/agreements-backend/internal/data/repos/agreement"
)

type Repos struct {
	Agreement agreementrepo.AgreementRepo
}

func (a *App) wireRepos() {
	a.Repos = &Repos{
		Agreement: agreementrepo.NewAgreementRepo(a.DB.DB(), a.Log),
	}
}
