package site

// TailwindCDN is the runtime the page's utility classes rely on.
const TailwindCDN = "https://cdn.tailwindcss.com"

// Styles is the page CSS the patch operations depend on.
const Styles = `
.hidden { display: none; }
.reveal { opacity: 0; transform: translateY(20px); }
@keyframes slideUp {
  from { opacity: 0; transform: translateY(20px); }
  to { opacity: 1; transform: translateY(0); }
}
.animate-slide-up { animation: slideUp 0.6s ease-out forwards; }
.input-error { border-color: #ef4444 !important; background-color: #fef2f2; }
.input-success { border-color: #22c55e !important; }
.btn-loading { opacity: 0.7; cursor: wait; }
html { scroll-behavior: smooth; }
`
