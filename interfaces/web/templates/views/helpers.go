package views

func detailTitle(v DetailPageView) string {
	return v.Name + " – " + v.AppTitle
}
