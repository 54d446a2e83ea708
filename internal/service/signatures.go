package service

// Source is where a signature marker is looked for.
type Source int

const (
	// SourceHeader matches the value of the named response header. An empty
	// marker matches on the header's presence.
	SourceHeader Source = iota
	// SourceAsset matches script src and link href URLs.
	SourceAsset
	// SourceClass matches class attribute values.
	SourceClass
	// SourceAttribute matches attribute names, e.g. "ng-version".
	SourceAttribute
	// SourceGenerator matches the content of <meta name="generator">.
	SourceGenerator
	// SourceMarkup matches the raw page markup.
	SourceMarkup
)

type Category int

const (
	CategoryServer Category = iota
	CategoryTechnology
	CategoryCMS
	CategoryFramework
)

// Signature is a fixed marker that identifies a technology. Markers are
// matched as case-insensitive substrings and are stored lower-cased.
type Signature struct {
	Source   Source
	Header   string
	Marker   string
	Category Category
	Name     string
}

// signatures is shared read-only by every detection. Within a category,
// table order is priority order.
var signatures = []Signature{
	{Source: SourceHeader, Header: "Server", Marker: "cloudflare", Category: CategoryServer, Name: "Cloudflare"},
	{Source: SourceHeader, Header: "Server", Marker: "openresty", Category: CategoryServer, Name: "OpenResty"},
	{Source: SourceHeader, Header: "Server", Marker: "nginx", Category: CategoryServer, Name: "nginx"},
	{Source: SourceHeader, Header: "Server", Marker: "apache", Category: CategoryServer, Name: "Apache"},
	{Source: SourceHeader, Header: "Server", Marker: "microsoft-iis", Category: CategoryServer, Name: "Microsoft IIS"},
	{Source: SourceHeader, Header: "Server", Marker: "litespeed", Category: CategoryServer, Name: "LiteSpeed"},
	{Source: SourceHeader, Header: "Server", Marker: "caddy", Category: CategoryServer, Name: "Caddy"},
	{Source: SourceHeader, Header: "Server", Marker: "gws", Category: CategoryServer, Name: "Google Web Server"},
	{Source: SourceHeader, Header: "Server", Marker: "amazons3", Category: CategoryServer, Name: "Amazon S3"},
	{Source: SourceHeader, Header: "Server", Marker: "vercel", Category: CategoryServer, Name: "Vercel"},

	{Source: SourceHeader, Header: "X-Powered-By", Marker: "php", Category: CategoryTechnology, Name: "PHP"},
	{Source: SourceHeader, Header: "X-Powered-By", Marker: "asp.net", Category: CategoryTechnology, Name: "ASP.NET"},
	{Source: SourceHeader, Header: "X-AspNet-Version", Category: CategoryTechnology, Name: "ASP.NET"},
	{Source: SourceHeader, Header: "X-Powered-By", Marker: "express", Category: CategoryTechnology, Name: "Express"},
	{Source: SourceHeader, Header: "CF-Ray", Category: CategoryTechnology, Name: "Cloudflare"},
	{Source: SourceHeader, Header: "X-Amz-Cf-Id", Category: CategoryTechnology, Name: "Amazon CloudFront"},
	{Source: SourceHeader, Header: "X-Varnish", Category: CategoryTechnology, Name: "Varnish"},
	{Source: SourceAsset, Marker: "jquery", Category: CategoryTechnology, Name: "jQuery"},
	{Source: SourceAsset, Marker: "bootstrap", Category: CategoryTechnology, Name: "Bootstrap"},
	{Source: SourceAsset, Marker: "font-awesome", Category: CategoryTechnology, Name: "Font Awesome"},
	{Source: SourceAsset, Marker: "fontawesome", Category: CategoryTechnology, Name: "Font Awesome"},
	{Source: SourceAsset, Marker: "tailwind", Category: CategoryTechnology, Name: "Tailwind CSS"},
	{Source: SourceAsset, Marker: "googletagmanager.com", Category: CategoryTechnology, Name: "Google Tag Manager"},
	{Source: SourceAsset, Marker: "google-analytics.com", Category: CategoryTechnology, Name: "Google Analytics"},
	{Source: SourceAsset, Marker: "fonts.googleapis.com", Category: CategoryTechnology, Name: "Google Fonts"},
	{Source: SourceAsset, Marker: "cdn.jsdelivr.net", Category: CategoryTechnology, Name: "jsDelivr"},
	{Source: SourceAsset, Marker: "cdnjs.cloudflare.com", Category: CategoryTechnology, Name: "cdnjs"},
	{Source: SourceAsset, Marker: "recaptcha", Category: CategoryTechnology, Name: "reCAPTCHA"},
	{Source: SourceClass, Marker: "fa-", Category: CategoryTechnology, Name: "Font Awesome"},

	{Source: SourceGenerator, Marker: "wordpress", Category: CategoryCMS, Name: "WordPress"},
	{Source: SourceAsset, Marker: "/wp-content/", Category: CategoryCMS, Name: "WordPress"},
	{Source: SourceAsset, Marker: "/wp-includes/", Category: CategoryCMS, Name: "WordPress"},
	{Source: SourceGenerator, Marker: "drupal", Category: CategoryCMS, Name: "Drupal"},
	{Source: SourceHeader, Header: "X-Drupal-Cache", Category: CategoryCMS, Name: "Drupal"},
	{Source: SourceAttribute, Marker: "data-drupal-", Category: CategoryCMS, Name: "Drupal"},
	{Source: SourceAsset, Marker: "/sites/default/files/", Category: CategoryCMS, Name: "Drupal"},
	{Source: SourceGenerator, Marker: "joomla", Category: CategoryCMS, Name: "Joomla"},
	{Source: SourceAsset, Marker: "/media/jui/", Category: CategoryCMS, Name: "Joomla"},
	{Source: SourceAsset, Marker: "cdn.shopify.com", Category: CategoryCMS, Name: "Shopify"},
	{Source: SourceGenerator, Marker: "wix.com", Category: CategoryCMS, Name: "Wix"},
	{Source: SourceGenerator, Marker: "squarespace", Category: CategoryCMS, Name: "Squarespace"},
	{Source: SourceGenerator, Marker: "ghost", Category: CategoryCMS, Name: "Ghost"},
	{Source: SourceGenerator, Marker: "hugo", Category: CategoryCMS, Name: "Hugo"},

	{Source: SourceAttribute, Marker: "data-reactroot", Category: CategoryFramework, Name: "React"},
	{Source: SourceAsset, Marker: "react", Category: CategoryFramework, Name: "React"},
	{Source: SourceMarkup, Marker: "__next_data__", Category: CategoryFramework, Name: "Next.js"},
	{Source: SourceAsset, Marker: "/_next/", Category: CategoryFramework, Name: "Next.js"},
	{Source: SourceHeader, Header: "X-Powered-By", Marker: "next.js", Category: CategoryFramework, Name: "Next.js"},
	{Source: SourceAttribute, Marker: "data-v-", Category: CategoryFramework, Name: "Vue.js"},
	{Source: SourceAsset, Marker: "vue", Category: CategoryFramework, Name: "Vue.js"},
	{Source: SourceMarkup, Marker: "__nuxt", Category: CategoryFramework, Name: "Nuxt.js"},
	{Source: SourceAttribute, Marker: "ng-version", Category: CategoryFramework, Name: "Angular"},
	{Source: SourceAttribute, Marker: "ng-app", Category: CategoryFramework, Name: "Angular"},
	{Source: SourceAsset, Marker: "angular", Category: CategoryFramework, Name: "Angular"},
	{Source: SourceClass, Marker: "svelte-", Category: CategoryFramework, Name: "Svelte"},
	{Source: SourceAsset, Marker: "ember", Category: CategoryFramework, Name: "Ember.js"},
	{Source: SourceAttribute, Marker: "x-data", Category: CategoryFramework, Name: "Alpine.js"},
	{Source: SourceAttribute, Marker: "hx-get", Category: CategoryFramework, Name: "htmx"},
	{Source: SourceAttribute, Marker: "hx-post", Category: CategoryFramework, Name: "htmx"},
}
