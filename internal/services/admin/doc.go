// Package admin serves the back-office: accounts, bills, bulk email,
// feedback triage, page metadata, the price experiment and the newsletter
// list.
//
// Every page except sign-in needs a session. Editors reach the dashboard,
// feedback and SEO pages; everything else needs the admin role. Mutations
// are same-origin POST forms answered with a redirect that carries a flash
// message.
package admin
